package handlers

import (
	"context"

	"service-cleaning-booking/internal/domain"
	"service-cleaning-booking/internal/service/assignment"
)

type assignmentUsecase interface {
	CreateAssignment(ctx context.Context, in assignment.CreateInput) (*domain.Assignment, error)
	TransitionAssignment(ctx context.Context, in assignment.TransitionInput) (*domain.Assignment, error)
	DeleteAssignment(ctx context.Context, id int64) error
	GetAssignment(ctx context.Context, id int64) (*domain.Assignment, error)
	History(ctx context.Context, id int64) ([]domain.StatusHistoryEntry, error)
}

// NewAssignmentUsecase wires an assignment Service into an assignmentUsecase.
func NewAssignmentUsecase(svc *assignment.Service) assignmentUsecase {
	return svc
}
