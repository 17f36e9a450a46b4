package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetUniversities handles GET /api/universities
func (s *Server) GetUniversities(c *fiber.Ctx) error {
	universities, err := s.catalogService.ListUniversities(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(universities)
}

// GetUniversity handles GET /api/universities/:id
func (s *Server) GetUniversity(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	university, err := s.catalogService.GetUniversity(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(university)
}

// GetCourses handles GET /api/courses?university_id=
func (s *Server) GetCourses(c *fiber.Ctx) error {
	universityID, err := parseOptionalID(c, "university_id")
	if err != nil {
		return nil
	}
	courses, err := s.catalogService.ListCourses(c.UserContext(), universityID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(courses)
}

// GetCourse handles GET /api/courses/:id
func (s *Server) GetCourse(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	course, err := s.catalogService.GetCourse(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(course)
}
