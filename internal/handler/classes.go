package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func (h *Handler) GetMyClassRuns(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	classRuns, err := h.repository.GetClassRunsByInstructor(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取开班列表成功", classRuns)
}
