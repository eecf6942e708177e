package handler_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/handler"
	"github.com/noah-isme/campus-portal/internal/service"
	"github.com/noah-isme/campus-portal/internal/session"
)

type mockMarksService struct {
	importErr  error
	importName string
	submitted  dto.MarksSubmitRequest
}

func (m *mockMarksService) Preview(payload dto.MarksSubmitRequest) []dto.MarkPreview {
	out := make([]dto.MarkPreview, 0, len(payload.Entries))
	for _, entry := range payload.Entries {
		out = append(out, dto.MarkPreview{CourseID: entry.CourseID, StudentID: entry.StudentID, Grade: "A"})
	}
	return out
}

func (m *mockMarksService) Submit(_ context.Context, _ session.Session, payload dto.MarksSubmitRequest) (dto.MarksSubmitResponse, error) {
	m.submitted = payload
	return dto.MarksSubmitResponse{Submitted: len(payload.Entries), Previews: m.Preview(payload)}, nil
}

func (m *mockMarksService) ImportCSV(_ context.Context, _ session.Session, file *multipart.FileHeader) (dto.MarksSubmitResponse, error) {
	m.importName = file.Filename
	if m.importErr != nil {
		return dto.MarksSubmitResponse{}, m.importErr
	}
	return dto.MarksSubmitResponse{Submitted: 1}, nil
}

func marksApp(svc service.MarksService) *fiber.App {
	app := fiber.New()
	handler.NewMarksHandler(svc, quietLogger()).Register(app.Group("/api/v1/teacher/marks", withSession(session.RoleTeacher, "7")), passThrough)
	return app
}

func multipartRequest(t *testing.T, url, filename string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestMarksHandlerSubmit(t *testing.T) {
	svc := &mockMarksService{}
	app := marksApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/teacher/marks", strings.NewReader(`{"entries":[{"course_id":"1","student_id":"42","quiz_marks":18,"assignment_marks":19,"mids_marks":22,"final_marks":27}]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Len(t, svc.submitted.Entries, 1)
	require.Equal(t, 27.0, svc.submitted.Entries[0].FinalMarks)
}

func TestMarksHandlerPreview(t *testing.T) {
	app := marksApp(&mockMarksService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/teacher/marks/preview", strings.NewReader(`{"entries":[{"course_id":"1","student_id":"42"}]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data []dto.MarkPreview `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Len(t, body.Data, 1)
}

func TestMarksHandlerImport(t *testing.T) {
	svc := &mockMarksService{}
	app := marksApp(svc)

	resp, err := app.Test(multipartRequest(t, "/api/v1/teacher/marks/import", "marks.csv", []byte("course_id,student_id,quiz,assignment,mids,final\n1,42,1,2,3,4\n")))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "marks.csv", svc.importName)
}

func TestMarksHandlerImportErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{err: service.ErrUploadTooLarge, status: fiber.StatusRequestEntityTooLarge},
		{err: service.ErrUploadTypeNotAllowed, status: fiber.StatusUnsupportedMediaType},
		{err: service.ErrInvalidMarksFile, status: fiber.StatusBadRequest},
		{err: service.ErrCourseNotAssigned, status: fiber.StatusForbidden},
	}

	for _, tc := range cases {
		app := marksApp(&mockMarksService{importErr: tc.err})
		resp, err := app.Test(multipartRequest(t, "/api/v1/teacher/marks/import", "marks.csv", []byte("x")))
		require.NoError(t, err)
		require.Equal(t, tc.status, resp.StatusCode, tc.err.Error())
	}
}

func TestMarksHandlerImportRequiresFile(t *testing.T) {
	app := marksApp(&mockMarksService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/teacher/marks/import", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
