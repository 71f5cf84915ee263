package services

import (
	"testing"

	"TaskFlowGo/models"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeMatrix(t *testing.T) {
	admin := models.Principal{ID: "u-admin", Role: models.RoleAdmin}
	assigned := models.Principal{ID: "u-assigned", Role: models.RoleMember}
	outsider := models.Principal{ID: "u-outsider", Role: models.RoleMember}

	task := &models.Task{
		ID:         "t1",
		AssignedTo: []models.TaskAssignment{{TaskID: "t1", UserID: "u-assigned"}},
	}

	tests := []struct {
		name      string
		principal models.Principal
		op        Operation
		allow     bool
	}{
		{"admin create", admin, OpCreateTask, true},
		{"member create", assigned, OpCreateTask, false},
		{"admin read", admin, OpReadTask, true},
		{"assigned read", assigned, OpReadTask, true},
		{"outsider read", outsider, OpReadTask, false},
		{"admin edit", admin, OpEditTask, true},
		{"assigned edit", assigned, OpEditTask, false},
		{"outsider edit", outsider, OpEditTask, false},
		{"admin delete", admin, OpDeleteTask, true},
		{"assigned delete", assigned, OpDeleteTask, false},
		{"outsider delete", outsider, OpDeleteTask, false},
		{"admin set status", admin, OpSetStatus, true},
		{"assigned set status", assigned, OpSetStatus, true},
		{"outsider set status", outsider, OpSetStatus, false},
		{"admin edit checklist", admin, OpEditChecklist, true},
		{"assigned edit checklist", assigned, OpEditChecklist, true},
		{"outsider edit checklist", outsider, OpEditChecklist, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.principal, tt.op, task)
			if tt.allow {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestAuthorizeUnknownOperation(t *testing.T) {
	admin := models.Principal{ID: "u-admin", Role: models.RoleAdmin}
	assert.ErrorIs(t, Authorize(admin, Operation("bogus"), nil), ErrForbidden)
}
