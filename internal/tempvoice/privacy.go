package tempvoice

import "fmt"

// Privacy governs the default-role overwrites of a room and whether an
// advertisement may exist for it.
type Privacy int

const (
	// PrivacyPublic: anyone sees, connects and writes.
	PrivacyPublic Privacy = iota
	// PrivacyPrivate: visible, but joining needs an explicit grant.
	PrivacyPrivate
	// PrivacyHidden: invisible without an explicit grant.
	PrivacyHidden
)

func (p Privacy) String() string {
	switch p {
	case PrivacyPublic:
		return "public"
	case PrivacyPrivate:
		return "private"
	case PrivacyHidden:
		return "hidden"
	}
	return fmt.Sprintf("Privacy(%d)", int(p))
}

func ParsePrivacy(s string) (Privacy, error) {
	switch s {
	case "public":
		return PrivacyPublic, nil
	case "private":
		return PrivacyPrivate, nil
	case "hidden":
		return PrivacyHidden, nil
	}
	return PrivacyPublic, fmt.Errorf("invalid privacy mode: %q", s)
}
