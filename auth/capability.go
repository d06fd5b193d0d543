// Package auth evaluates requester capabilities. The rest of the system
// only ever sees a CapabilityFunc and the resulting extension tier; how
// permissions are established (bearer token here) stays contained.
package auth

// CapabilityFunc reports whether the requester holds a named permission.
type CapabilityFunc func(permission string) bool

// PermissionExtension gates the role tier of extended attributes.
const PermissionExtension = "access open311 extension"

// ExtensionTier selects how much of the extended_attributes block a
// response may carry. Anything below TierAnonymous drops the block
// entirely rather than emitting empty values.
type ExtensionTier int

const (
	TierNone ExtensionTier = iota
	TierAnonymous
	TierRole
)

// TierFor derives the tier from the request: asking for extensions at
// all yields the anonymous tier, and the extension permission upgrades
// it to the role tier.
func TierFor(extensionsRequested bool, can CapabilityFunc) ExtensionTier {
	if !extensionsRequested {
		return TierNone
	}
	if can != nil && can(PermissionExtension) {
		return TierRole
	}
	return TierAnonymous
}

// DenyAll is the capability check applied to anonymous requesters.
func DenyAll(string) bool { return false }
