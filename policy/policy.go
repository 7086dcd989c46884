// Package policy decides whether an identity may perform an action on a
// resource. Every mutating service call goes through Can.
package policy

import "news-portal/models"

type Action string

const (
	ActionRead       Action = "read"
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionManageRole Action = "manage_role"
)

type Kind string

const (
	KindArticle           Kind = "article"
	KindCategory          Kind = "category"
	KindTag               Kind = "tag"
	KindContentType       Kind = "content_type"
	KindComment           Kind = "comment"
	KindMedia             Kind = "media"
	KindAuthor            Kind = "author"
	KindSocialIntegration Kind = "social_integration"
	KindMetrics           Kind = "metrics"
	KindAuditLog          Kind = "audit_log"
)

// Resource is what the actor wants to touch. OwnerID is the author the
// resource belongs to (or will belong to, for create); zero means unowned.
type Resource struct {
	Kind    Kind
	OwnerID uint
}

// Can reports whether actor may perform action on res. A nil or inactive
// actor is never allowed.
func Can(actor *models.Author, action Action, res Resource) bool {
	if actor == nil || !actor.IsActive {
		return false
	}
	if actor.Role == models.RoleAdmin {
		return true
	}

	owns := res.OwnerID != 0 && res.OwnerID == actor.ID

	switch res.Kind {
	case KindAuditLog:
		return false
	case KindMetrics:
		// likes and shares are open to any signed-in identity; resets and
		// the full listing are admin only.
		return action == ActionUpdate
	case KindAuthor:
		// identities are created, deleted and re-roled by admins only.
		return action == ActionUpdate && owns
	case KindSocialIntegration:
		return owns
	}

	if action == ActionRead {
		return true
	}

	if actor.Role == models.RoleEditor {
		switch res.Kind {
		case KindArticle, KindCategory, KindTag, KindContentType, KindComment, KindMedia:
			return action == ActionCreate || action == ActionUpdate || action == ActionDelete
		}
		return false
	}

	switch res.Kind {
	case KindArticle, KindComment, KindMedia:
		return owns && (action == ActionCreate || action == ActionUpdate || action == ActionDelete)
	}
	return false
}

// Sees reports whether actor may view an unpublished article owned by ownerID.
func Sees(actor *models.Author, ownerID uint) bool {
	if actor == nil || !actor.IsActive {
		return false
	}
	return actor.Role == models.RoleAdmin || actor.Role == models.RoleEditor || actor.ID == ownerID
}
