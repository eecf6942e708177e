package service

import "errors"

var (
	// ErrForbidden indicates the session may not perform the operation.
	ErrForbidden = errors.New("operation not permitted for this session")
	// ErrAnnouncementNotFound indicates the announcement is not in the feed.
	ErrAnnouncementNotFound = errors.New("announcement not found")
	// ErrTeacherNotFound indicates the teacher is not in the roster.
	ErrTeacherNotFound = errors.New("teacher not found")
	// ErrCourseNotAssigned indicates a teacher acted on a course they do not teach.
	ErrCourseNotAssigned = errors.New("course is not assigned to this teacher")
	// ErrDuplicateAttendance indicates a student appears twice on one sheet.
	ErrDuplicateAttendance = errors.New("student listed more than once")
	// ErrUnsupportedRole indicates the backend issued a role the portal does not serve.
	ErrUnsupportedRole = errors.New("unsupported role")
	// ErrUploadTooLarge indicates the marks file exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the marks file is not CSV text.
	ErrUploadTypeNotAllowed = errors.New("file type not allowed")
	// ErrInvalidMarksFile indicates the marks file could not be parsed.
	ErrInvalidMarksFile = errors.New("invalid marks file")
)
