package controllers

import (
	"encoding/json"
	"fmt"
	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	courseValidator "lms/validators/course"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{
		AppOrigin:         "http://localhost:3000",
		CertificatePrefix: "CPB",
	}
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "lms_test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Lesson{},
		&courseModels.Enrollment{},
		&courseModels.LessonProgress{},
		&courseModels.Certificate{},
	))

	database.Database = database.DbInstance{Db: db}
	return db
}

// asUser stands in for the JWT middleware
func asUser(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		return c.Next()
	}
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, apiResponse) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp.StatusCode, parsed
}

func createTestUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Name: "Ada Okafor", Email: "ada@example.com", Password: "hashed"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestEnrollInCourse_RejectsPricedCourse(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	course := courseModels.Course{
		Title:       "Safeguarding Adults",
		Description: "Recognising and reporting abuse",
		Price:       50000,
		Status:      "ACTIVE",
		IsPublished: true,
	}
	require.NoError(t, db.Create(&course).Error)

	app := fiber.New()
	app.Post("/course/:id/enroll", asUser(user.ID), courseValidator.EnrollCourse(), EnrollInCourse)

	status, resp := doRequest(t, app, fiber.MethodPost, fmt.Sprintf("/course/%d/enroll", course.ID), "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, resp.Status)

	// the rejected attempt must leave no enrollment behind
	var count int64
	require.NoError(t, db.Model(&courseModels.Enrollment{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEnrollInCourse_FreeCourseIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	course := courseModels.Course{
		Title:       "Infection Prevention Basics",
		Description: "Hand hygiene and PPE",
		Price:       0,
		Status:      "ACTIVE",
		IsPublished: true,
	}
	require.NoError(t, db.Create(&course).Error)

	app := fiber.New()
	app.Post("/course/:id/enroll", asUser(user.ID), courseValidator.EnrollCourse(), EnrollInCourse)

	target := fmt.Sprintf("/course/%d/enroll", course.ID)

	status, resp := doRequest(t, app, fiber.MethodPost, target, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, resp.Status)

	status, resp = doRequest(t, app, fiber.MethodPost, target, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Already enrolled in this course!", resp.Message)

	var count int64
	require.NoError(t, db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func certificateTestApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Post("/course/:course_id/certificate", asUser(userID), courseValidator.IssueCertificate(), IssueCertificate)
	return app
}

func completedEnrollment(t *testing.T, db *gorm.DB, userID, courseID uint) courseModels.Enrollment {
	t.Helper()
	enrollment := courseModels.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   "COMPLETED",
		Progress: 100,
	}
	require.NoError(t, db.Create(&enrollment).Error)
	return enrollment
}

func TestIssueCertificate_RepeatCallReturnsSameCode(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	course := courseModels.Course{Title: "Dementia Care", Description: "Person-centred support", Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)
	enrollment := completedEnrollment(t, db, user.ID, course.ID)

	app := certificateTestApp(user.ID)
	target := fmt.Sprintf("/course/%d/certificate", course.ID)

	status, first := doRequest(t, app, fiber.MethodPost, target, "")
	require.Equal(t, fiber.StatusCreated, status)

	var firstData struct {
		Certificate courseModels.Certificate `json:"certificate"`
	}
	require.NoError(t, json.Unmarshal(first.Data, &firstData))
	assert.Regexp(t, `^CPB-\d{4}-[A-Z0-9]{5}$`, firstData.Certificate.Code)

	status, second := doRequest(t, app, fiber.MethodPost, target, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Certificate already issued!", second.Message)

	var secondData struct {
		Certificate courseModels.Certificate `json:"certificate"`
	}
	require.NoError(t, json.Unmarshal(second.Data, &secondData))
	assert.Equal(t, firstData.Certificate.Code, secondData.Certificate.Code)

	var count int64
	require.NoError(t, db.Model(&courseModels.Certificate{}).Where("enrollment_id = ?", enrollment.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestIssueCertificate_RequiresFullProgress(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	course := courseModels.Course{Title: "Dementia Care", Description: "Person-centred support", Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	enrollment := courseModels.Enrollment{UserID: user.ID, CourseID: course.ID, Status: "IN_PROGRESS", Progress: 60}
	require.NoError(t, db.Create(&enrollment).Error)

	app := certificateTestApp(user.ID)

	status, resp := doRequest(t, app, fiber.MethodPost, fmt.Sprintf("/course/%d/certificate", course.ID), "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, resp.Status)
}

func TestIssueCertificate_MissingCourse(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	course := courseModels.Course{Title: "Dementia Care", Description: "Person-centred support", Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)
	completedEnrollment(t, db, user.ID, course.ID)

	// the course was removed after the learner finished it
	require.NoError(t, db.Model(&course).Update("is_deleted", true).Error)

	app := certificateTestApp(user.ID)

	status, resp := doRequest(t, app, fiber.MethodPost, fmt.Sprintf("/course/%d/certificate", course.ID), "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Course not found!", resp.Message)
}

func TestUpdateLesson_PersistsChanges(t *testing.T) {
	db := setupTestDB(t)

	course := courseModels.Course{Title: "Nutrition and Hydration", Description: "Meal planning for care settings", Status: "ACTIVE"}
	require.NoError(t, db.Create(&course).Error)

	lesson := courseModels.Lesson{CourseID: course.ID, Title: "Fluids", ContentType: "TEXT", OrderIndex: 1}
	require.NoError(t, db.Create(&lesson).Error)

	app := fiber.New()
	app.Put("/admin/lesson/:lesson_id", courseValidator.UpdateLesson(), UpdateLesson)

	body := `{"title":"Fluid intake and monitoring","order_index":2,"is_published":true}`
	status, resp := doRequest(t, app, fiber.MethodPut, fmt.Sprintf("/admin/lesson/%d", lesson.ID), body)
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, resp.Status)

	var stored courseModels.Lesson
	require.NoError(t, db.First(&stored, lesson.ID).Error)
	assert.Equal(t, "Fluid intake and monitoring", stored.Title)
	assert.Equal(t, 2, stored.OrderIndex)
	assert.True(t, stored.IsPublished)
	// untouched fields keep their values
	assert.Equal(t, "TEXT", stored.ContentType)
}

func TestUpdateLesson_RejectsBadContentType(t *testing.T) {
	db := setupTestDB(t)

	lesson := courseModels.Lesson{CourseID: 1, Title: "Fluids", ContentType: "TEXT"}
	require.NoError(t, db.Create(&lesson).Error)

	app := fiber.New()
	app.Put("/admin/lesson/:lesson_id", courseValidator.UpdateLesson(), UpdateLesson)

	status, resp := doRequest(t, app, fiber.MethodPut, fmt.Sprintf("/admin/lesson/%d", lesson.ID), `{"content_type":"AUDIO"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.False(t, resp.Status)
}

func TestUpdateLesson_UnknownLesson(t *testing.T) {
	setupTestDB(t)

	app := fiber.New()
	app.Put("/admin/lesson/:lesson_id", courseValidator.UpdateLesson(), UpdateLesson)

	status, resp := doRequest(t, app, fiber.MethodPut, "/admin/lesson/9999", `{"title":"Renamed"}`)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, resp.Status)
}
