package service

import "taskify-api/internal/models"

// Owns reports whether user owns task. It is the single ownership predicate for
// every per-task operation.
func Owns(task *models.Task, user *models.User) bool {
	return task != nil && user != nil && task.UserID != "" && task.UserID == user.ID
}

// CanListTasks reports whether user may list tasks at all. Listing is always
// scoped to the caller, so any authenticated user qualifies.
func CanListTasks(user *models.User) bool {
	return user != nil && user.ID != ""
}

func authorizeOwner(task *models.Task, user *models.User) error {
	if !Owns(task, user) {
		return ErrForbidden
	}
	return nil
}
