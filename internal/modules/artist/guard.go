package artist

// Authorize allows a mutation only when the caller owns the profile.
// It has no side effects and runs before any validation or write.
func Authorize(callerID, ownerID int64) error {
	if callerID == 0 || callerID != ownerID {
		return ErrForbidden
	}
	return nil
}
