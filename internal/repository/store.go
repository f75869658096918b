package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories over one database handle and scopes them to
// transactions. Task transitions and per-user batch work run inside InTx so
// task status, plan bookkeeping, habit logs and notifications commit as one
// unit.
type Store struct {
	db *gorm.DB

	Users         *UserRepository
	Templates     *TemplateRepository
	Plans         *PlanRepository
	Tasks         *TaskRepository
	HabitLogs     *HabitLogRepository
	Notifications *NotificationRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Templates:     NewTemplateRepository(db),
		Plans:         NewPlanRepository(db),
		Tasks:         NewTaskRepository(db),
		HabitLogs:     NewHabitLogRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// InTx runs fn with a Store bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
