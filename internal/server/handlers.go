package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/xolan/certtrack/internal/course"
	"github.com/xolan/certtrack/internal/filter"
	"github.com/xolan/certtrack/internal/service"
	"github.com/xolan/certtrack/internal/timeutil"
	"github.com/xolan/certtrack/internal/tracker"
)

// courseResponse is a course together with its 1-based position in the log.
type courseResponse struct {
	course.Entry
	Index int `json:"index"`
}

type listResponse struct {
	Courses      []courseResponse `json:"courses"`
	TotalHours   float64          `json:"totalHours"`
	CountedHours float64          `json:"countedHours"`
}

type addRequest struct {
	Name     string `json:"name"`
	Time     string `json:"time"`
	Category string `json:"category"`
	Custom   string `json:"custom"`
	Counts   *bool  `json:"updateHoursCompleted"`
}

type courseStateResponse struct {
	Course course.Entry  `json:"course"`
	State  tracker.State `json:"state"`
}

type importRequest struct {
	Text       string         `json:"text"`
	Category   string         `json:"category"`
	Custom     string         `json:"custom"`
	Counts     *bool          `json:"updateHoursCompleted"`
	DryRun     bool           `json:"dryRun"`
	Categories map[int]string `json:"categories,omitempty"`
}

type importResponse struct {
	Courses    []course.Entry `json:"courses"`
	AddedHours float64        `json:"addedHours"`
	State      tracker.State  `json:"state"`
	DryRun     bool           `json:"dryRun"`
}

type editRequest struct {
	Name     *string `json:"name"`
	Time     *string `json:"time"`
	Category *string `json:"category"`
	Custom   string  `json:"custom"`
	Counts   *bool   `json:"updateHoursCompleted"`
}

type editResponse struct {
	Old   course.Entry  `json:"old"`
	New   course.Entry  `json:"new"`
	State tracker.State `json:"state"`
}

type hoursRequest struct {
	Field string   `json:"field"`
	Value *float64 `json:"value"`
}

type categoryStats struct {
	Category     string  `json:"category"`
	Hours        float64 `json:"hours"`
	CourseCount  int     `json:"courseCount"`
	CountedHours float64 `json:"countedHours"`
}

type statsResponse struct {
	CourseCount       int             `json:"courseCount"`
	CountedCount      int             `json:"countedCount"`
	TotalHours        float64         `json:"totalHours"`
	CountedHours      float64         `json:"countedHours"`
	AverageHours      float64         `json:"averageHours"`
	CompletionPercent float64         `json:"completionPercent"`
	State             tracker.State   `json:"state"`
	Categories        []categoryStats `json:"categories"`
}

func (s *Server) getDocument(c echo.Context) error {
	doc, err := s.services.Tracker.Document(c.Request().Context())
	if err != nil {
		return s.httpError(err)
	}
	if doc.Courses == nil {
		doc.Courses = []course.Entry{}
	}
	return c.JSON(http.StatusOK, doc)
}

func (s *Server) putDocument(c echo.Context) error {
	var doc tracker.Document
	if err := c.Bind(&doc); err != nil {
		return err
	}
	stored, err := s.services.Tracker.ReplaceDocument(c.Request().Context(), doc)
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, stored)
}

func (s *Server) listCourses(c echo.Context) error {
	f := filter.NewFilter(c.QueryParam("search"), c.QueryParam("category"))
	result, err := s.services.Course.List(c.Request().Context(), f)
	if err != nil {
		return s.httpError(err)
	}

	resp := listResponse{
		Courses:      make([]courseResponse, 0, len(result.Courses)),
		TotalHours:   result.Total.DecimalHours(),
		CountedHours: result.CountedHours,
	}
	for _, ic := range result.Courses {
		resp.Courses = append(resp.Courses, courseResponse{Entry: ic.Course, Index: ic.Index})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) getCourse(c echo.Context) error {
	ic, err := s.services.Course.Get(c.Request().Context(), course.ID(c.Param("id")))
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, courseResponse{Entry: ic.Course, Index: ic.Index})
}

func (s *Server) addCourse(c echo.Context) error {
	var req addRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	added, state, err := s.services.Course.Add(c.Request().Context(), service.AddRequest{
		Name:     req.Name,
		Time:     req.Time,
		Category: req.Category,
		Custom:   req.Custom,
		Counts:   req.Counts,
	})
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusCreated, courseStateResponse{Course: *added, State: state})
}

func (s *Server) importCourses(c echo.Context) error {
	var req importRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	result, err := s.services.Course.Import(c.Request().Context(), service.ImportRequest{
		Text:       req.Text,
		Category:   req.Category,
		Custom:     req.Custom,
		Counts:     req.Counts,
		DryRun:     req.DryRun,
		Categories: req.Categories,
	})
	if err != nil {
		return s.httpError(err)
	}

	status := http.StatusCreated
	if result.DryRun {
		status = http.StatusOK
	}
	return c.JSON(status, importResponse{
		Courses:    result.Courses,
		AddedHours: result.AddedHours,
		State:      result.State,
		DryRun:     result.DryRun,
	})
}

func (s *Server) editCourse(c echo.Context) error {
	var req editRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	result, err := s.services.Course.Edit(c.Request().Context(), course.ID(c.Param("id")), service.EditRequest{
		Name:     req.Name,
		Time:     req.Time,
		Category: req.Category,
		Custom:   req.Custom,
		Counts:   req.Counts,
	})
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, editResponse{Old: result.Old, New: result.New, State: result.State})
}

func (s *Server) deleteCourse(c echo.Context) error {
	result, err := s.services.Course.Delete(c.Request().Context(), course.ID(c.Param("id")))
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, courseStateResponse{Course: result.Course, State: result.State})
}

func (s *Server) listCategories(c echo.Context) error {
	categories, err := s.services.Course.Categories(c.Request().Context())
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (s *Server) getHours(c echo.Context) error {
	status, err := s.services.Tracker.Status(c.Request().Context())
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, status.State)
}

func (s *Server) putHours(c echo.Context) error {
	var req hoursRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Value == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "value is required")
	}
	field, err := service.ParseHoursField(req.Field)
	if err != nil {
		return s.httpError(err)
	}
	state, err := s.services.Tracker.SetHours(c.Request().Context(), field, *req.Value)
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, state)
}

func (s *Server) getStats(c echo.Context) error {
	result, err := s.services.Stats.Summary(c.Request().Context())
	if err != nil {
		return s.httpError(err)
	}

	st := result.Statistics
	resp := statsResponse{
		CourseCount:       st.CourseCount,
		CountedCount:      st.CountedCount,
		TotalHours:        st.TotalHours,
		CountedHours:      st.CountedHours,
		AverageHours:      st.AverageHours,
		CompletionPercent: st.CompletionPercent,
		State:             result.State,
		Categories:        make([]categoryStats, 0, len(result.Categories)),
	}
	for _, cat := range result.Categories {
		resp.Categories = append(resp.Categories, categoryStats{
			Category:     cat.Category,
			Hours:        cat.Hours,
			CourseCount:  cat.CourseCount,
			CountedHours: cat.CountedHours,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

var badRequestErrors = []error{
	timeutil.ErrInvalidFormat,
	course.ErrLineParse,
	course.ErrEmptyBlock,
	course.ErrBadOverride,
	course.ErrEmptyName,
	course.ErrNegativeDuration,
	service.ErrMissingDuration,
	service.ErrNoChangesSpecified,
	service.ErrUnknownHoursField,
	service.ErrInvalidHours,
	tracker.ErrDuplicateID,
	tracker.ErrMissingID,
}

// httpError maps service errors to HTTP errors. Anything unrecognised is
// logged and reported as a 500 without details.
func (s *Server) httpError(err error) error {
	if errors.Is(err, tracker.ErrCourseNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	s.logger.Error("request failed", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
