package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/scheduler"
)

// GetClassSchedule 返回开班的周窗口、按周分组的模板和当前发布安排合成的展示状态
// 纯读取，可以反复调用
func (h *Handler) GetClassSchedule(w http.ResponseWriter, r *http.Request) {
	classRun := r.Context().Value(ClassRunCtx).(*domain.ClassRun)

	weeks, err := scheduler.PartitionWeeks(classRun.StartDate, classRun.EndDate)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	templates, err := h.repository.GetActiveTemplatesByCourseID(classRun.CourseID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	current, err := h.repository.GetCurrentScheduleByClassID(classRun.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	state := scheduler.BuildScheduleState(weeks, scheduler.GroupTemplatesByWeek(templates), current)

	h.successResponse(w, r, "获取发布计划成功", state)
}

// SaveClassSchedule 批量保存发布安排，整批原子生效：
// 任何一个提交项失败都会让整批回滚，调用方永远不会看到保存了一半的批次
func (h *Handler) SaveClassSchedule(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	classRun := r.Context().Value(ClassRunCtx).(*domain.ClassRun)

	var req struct {
		Overwrite   bool `json:"overwrite"`
		Submissions []struct {
			TemplateID  int64  `json:"templateID" validate:"required"`
			Enabled     bool   `json:"enabled"`
			PublishDate string `json:"publishDate"`
			PublishTime string `json:"publishTime"`
		} `json:"submissions" validate:"dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	weeks, err := scheduler.PartitionWeeks(classRun.StartDate, classRun.EndDate)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	templates, err := h.repository.GetActiveTemplatesByCourseID(classRun.CourseID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	submissions := make([]scheduler.Submission, len(req.Submissions))
	for i, item := range req.Submissions {
		submissions[i] = scheduler.Submission{
			TemplateID:  item.TemplateID,
			Enabled:     item.Enabled,
			PublishDate: item.PublishDate,
			PublishTime: item.PublishTime,
		}
	}

	plan := scheduler.PlanBatch(submissions, weeks, templates)

	// 存在无效的提交项时整批不落库
	if len(plan.Failures) > 0 {
		h.writeJSON(w, r, http.StatusOK, Response{
			Success: false,
			Message: fmt.Sprintf("保存失败：%d 个提交项无效，本次批量保存未生效", len(plan.Failures)),
			Data: map[string]any{
				"successCount": 0,
				"failureCount": len(plan.Failures),
				"skipped":      plan.Skipped,
				"failures":     plan.Failures,
			},
		})
		return
	}

	entries, err := h.repository.ApplyScheduleBatch(classRun.ID, req.Overwrite, plan.Assignments)
	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "schedule_entries_template_id_fkey":
				h.errorResponse(w, r, "存在未知的内容模板，整批已回滚")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 记录操作日志，写入失败只记日志，不影响本次请求
	activityLog := &domain.ActivityLog{
		UserID:      myInfo.ID,
		EventKind:   "schedule_batch_saved",
		Description: fmt.Sprintf("为开班「%s」保存了 %d 条发布安排", classRun.Name, len(entries)),
		EntityKind:  "class_run",
		EntityID:    classRun.ID,
	}
	if err := h.repository.InsertActivityLog(activityLog); err != nil {
		slog.Error("操作日志写入失败", "error", err)
	}

	h.successResponse(w, r, "发布计划保存成功", map[string]any{
		"entries":      entries,
		"successCount": len(entries),
		"failureCount": 0,
		"skipped":      plan.Skipped,
		"warnings":     plan.Warnings,
	})
}

// PublishScheduleEntryNow 把一条发布安排标记为立即到期，
// 实际发布由外部发布进程在下一轮扫描中完成，这里不做同步发布
func (h *Handler) PublishScheduleEntryNow(w http.ResponseWriter, r *http.Request) {
	classRun := r.Context().Value(ClassRunCtx).(*domain.ClassRun)

	scheduleIDParam := chi.URLParam(r, "scheduleID")
	scheduleID, err := strconv.ParseInt(scheduleIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "发布安排ID无效")
		return
	}

	entry, err := h.repository.MarkScheduleEntryDueNow(scheduleID, classRun.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "发布安排不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "已标记为立即发布，等待发布进程处理", entry)
}

func (h *Handler) RemoveScheduleEntry(w http.ResponseWriter, r *http.Request) {
	classRun := r.Context().Value(ClassRunCtx).(*domain.ClassRun)

	scheduleIDParam := chi.URLParam(r, "scheduleID")
	scheduleID, err := strconv.ParseInt(scheduleIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "发布安排ID无效")
		return
	}

	if err := h.repository.DeleteScheduleEntry(scheduleID, classRun.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "发布安排不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "发布安排删除成功", nil)
}
