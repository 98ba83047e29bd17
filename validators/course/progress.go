package courseValidator

import (
	"github.com/gofiber/fiber/v2"
)

func MarkLessonComplete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := paramID(c, "course_id", "courseID"); !ok {
			return err
		}
		if ok, err := paramID(c, "lesson_id", "lessonID"); !ok {
			return err
		}
		return c.Next()
	}
}

func GetCourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := paramID(c, "course_id", "courseID"); !ok {
			return err
		}
		return c.Next()
	}
}
