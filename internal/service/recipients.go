package service

import "github.com/yuvaraj-dudukuru/gate-pass/internal/models"

// WardenRecipients selects the wardens to notify about a new request: those
// sharing the student's gender, or every supplied warden when no gender match
// exists. The second return value reports whether the fallback applied, so
// callers can mark the message accordingly. A missing match never drops the
// request.
func WardenRecipients(studentGender models.Gender, wardens []models.User) ([]models.User, bool) {
	matched := make([]models.User, 0, len(wardens))
	for _, warden := range wardens {
		if warden.Gender == studentGender {
			matched = append(matched, warden)
		}
	}

	if len(matched) > 0 {
		return matched, false
	}
	return wardens, true
}

// RecipientIDs projects users onto their ids, keeping fan-out order stable.
func RecipientIDs(users []models.User) []uint {
	ids := make([]uint, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	return ids
}
