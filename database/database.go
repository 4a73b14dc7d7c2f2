package database

import (
	"context"
	"errors"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	db             *gorm.DB
	userRepo       *UserRepo
	articleRepo    *ArticleRepo
	commentRepo    *CommentRepo
	messageRepo    *MessageRepo
	projectRepo    *ProjectRepo
	skillRepo      *SkillRepo
	experienceRepo *ExperienceRepo
	settingsRepo   *SettingsRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:             db,
		userRepo:       NewUserRepo(db),
		articleRepo:    NewArticleRepo(db),
		commentRepo:    NewCommentRepo(db),
		messageRepo:    NewMessageRepo(db),
		projectRepo:    NewProjectRepo(db),
		skillRepo:      NewSkillRepo(db),
		experienceRepo: NewExperienceRepo(db),
		settingsRepo:   NewSettingsRepo(db),
	}
}

// AutoMigrate creates or updates the tables for every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) ArticleRepo() *ArticleRepo {
	return d.articleRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

func (d Database) MessageRepo() *MessageRepo {
	return d.messageRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) SkillRepo() *SkillRepo {
	return d.skillRepo
}

func (d Database) ExperienceRepo() *ExperienceRepo {
	return d.experienceRepo
}

func (d Database) SettingsRepo() *SettingsRepo {
	return d.settingsRepo
}

// Ping reports whether the primary connection is usable.
func (d Database) Ping(ctx context.Context) error {
	if d.db == nil {
		return errs.NewServiceUnavailableError("database", errors.New("not initialized"))
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return errs.NewServiceUnavailableError("database", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return errs.NewDatabaseTimeoutError("ping", err)
		}
		return errs.NewServiceUnavailableError("database", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (d Database) Close() error {
	if d.db == nil {
		return nil
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// notFound maps gorm.ErrRecordNotFound to a typed not-found error and wraps anything else.
func notFound(err error, operation, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewNotFound(entity)
	}
	return errs.NewDatabaseError(operation, entity, err)
}

// txError classifies the error a transaction returned. Anything other than a missing record
// means the whole unit was rolled back.
func txError(err error, operation, entity string) error {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(err, operation, entity)
	}
	return errs.NewTransactionFailedError(operation+" "+entity, notFound(err, operation, entity))
}
