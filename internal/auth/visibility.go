package auth

// VolcanoExtendedFields reports whether population fields may be shown.
// Any valid token qualifies; volcanoes have no owner.
func VolcanoExtendedFields(o Outcome) bool {
	return o.Status == Authenticated
}

// ProfileExtendedFields reports whether address and dob of ownerEmail's
// profile may be shown. The comparison is case-sensitive.
func ProfileExtendedFields(o Outcome, ownerEmail string) bool {
	return o.Status == Authenticated && o.Claim.Email == ownerEmail
}

// AuthorizeProfileUpdate decides whether the caller may change ownerEmail's
// profile. It returns ErrMissingHeader or the rejection reason for
// authentication failures and ErrForbidden for a mismatched identity.
func AuthorizeProfileUpdate(o Outcome, ownerEmail string) error {
	switch o.Status {
	case Unauthenticated:
		return ErrMissingHeader
	case Rejected:
		if o.Reason == nil {
			return ErrInvalidToken
		}
		return o.Reason
	}
	if o.Claim.Email != ownerEmail {
		return ErrForbidden
	}
	return nil
}
