package course

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "lms_test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Course{}, &Lesson{}, &Enrollment{}, &LessonProgress{}, &Certificate{}))

	return db
}

func TestFirstOrEnroll_SecondCallReturnsExistingRow(t *testing.T) {
	db := newTestDB(t)

	first, created, err := FirstOrEnroll(db, 7, 3, "")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := FirstOrEnroll(db, 7, 3, "ref-abc-123")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	// the first write wins; a later reference does not overwrite it
	assert.Empty(t, second.PaymentReference)

	var count int64
	require.NoError(t, db.Model(&Enrollment{}).Where("user_id = ? AND course_id = ?", 7, 3).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFirstOrEnroll_DistinctCoursesGetDistinctRows(t *testing.T) {
	db := newTestDB(t)

	first, created, err := FirstOrEnroll(db, 7, 3, "")
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := FirstOrEnroll(db, 7, 4, "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestUpsertLessonProgress_RepeatKeepsSingleRow(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, UpsertLessonProgress(db, 1, 5))
	require.NoError(t, UpsertLessonProgress(db, 1, 5))

	var rows []LessonProgress
	require.NoError(t, db.Where("enrollment_id = ? AND lesson_id = ?", 1, 5).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsCompleted)
	require.NotNil(t, rows[0].CompletedAt)
}

func TestRecomputeProgress_CountsOnlyPublishedLessons(t *testing.T) {
	db := newTestDB(t)

	lessons := []Lesson{
		{CourseID: 1, Title: "Introduction to care standards", IsPublished: true},
		{CourseID: 1, Title: "Moving and handling", IsPublished: true},
		{CourseID: 1, Title: "Medication management", IsPublished: true},
		{CourseID: 1, Title: "Draft notes", IsPublished: false},
	}
	require.NoError(t, db.Create(&lessons).Error)

	enrollment, _, err := FirstOrEnroll(db, 2, 1, "")
	require.NoError(t, err)

	require.NoError(t, UpsertLessonProgress(db, enrollment.ID, lessons[0].ID))
	require.NoError(t, UpsertLessonProgress(db, enrollment.ID, lessons[1].ID))
	require.NoError(t, RecomputeProgress(db, enrollment))

	assert.Equal(t, 67, enrollment.Progress)
	assert.Equal(t, "IN_PROGRESS", enrollment.Status)
	assert.Nil(t, enrollment.CompletedAt)

	require.NoError(t, UpsertLessonProgress(db, enrollment.ID, lessons[2].ID))
	require.NoError(t, RecomputeProgress(db, enrollment))

	assert.Equal(t, 100, enrollment.Progress)
	assert.Equal(t, "COMPLETED", enrollment.Status)
	require.NotNil(t, enrollment.CompletedAt)

	var stored Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	assert.Equal(t, 100, stored.Progress)
	assert.Equal(t, 3, stored.TotalLessons)
	assert.Equal(t, 3, stored.CompletedLessons)
}
