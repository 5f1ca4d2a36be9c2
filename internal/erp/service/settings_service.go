package service

import (
	"context"
	"errors"

	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"github.com/Unload-CM/dmc-erp/internal/erp/repository"
)

// LookupRequest 코드성 목록 등록/수정 요청
type LookupRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"max=200"`
}

// Lookup serves one name/description list.
type Lookup[T any] struct {
	repo   *repository.CrudRepository[T]
	notify *notifier
	newRow func(id string) *T
	apply  func(row *T, req *LookupRequest)
	idOf   func(row *T) string
}

func (l *Lookup[T]) List(ctx context.Context, q ListQuery) ([]T, int64, error) {
	return l.repo.List(ctx, q.params())
}

func (l *Lookup[T]) Get(ctx context.Context, id string) (*T, error) {
	return l.repo.FindByID(ctx, id)
}

func (l *Lookup[T]) Create(ctx context.Context, req *LookupRequest) (*T, error) {
	row := l.newRow(entity.NewID())
	l.apply(row, req)
	if err := l.repo.Create(ctx, row); err != nil {
		return nil, err
	}
	l.notify.created(ctx, l.repo.Collection(), l.idOf(row))
	return row, nil
}

func (l *Lookup[T]) Update(ctx context.Context, id string, req *LookupRequest) (*T, error) {
	row, err := l.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	l.apply(row, req)
	if err := l.repo.Save(ctx, row); err != nil {
		return nil, err
	}
	l.notify.updated(ctx, l.repo.Collection(), id)
	return row, nil
}

func (l *Lookup[T]) Delete(ctx context.Context, id string) error {
	if err := l.repo.Delete(ctx, id); err != nil {
		return err
	}
	l.notify.deleted(ctx, l.repo.Collection(), id)
	return nil
}

// SettingsService 설정 서비스
type SettingsService struct {
	repos  *repository.Repositories
	notify *notifier

	Units        *Lookup[entity.Unit]
	Priorities   *Lookup[entity.Priority]
	TaskStatuses *Lookup[entity.TaskStatus]
}

func NewSettingsService(repos *repository.Repositories, n *notifier) *SettingsService {
	return &SettingsService{
		repos:  repos,
		notify: n,
		Units: &Lookup[entity.Unit]{
			repo:   repos.Unit,
			notify: n,
			newRow: func(id string) *entity.Unit { return &entity.Unit{ID: id} },
			apply: func(u *entity.Unit, req *LookupRequest) {
				u.Name, u.Description = req.Name, req.Description
			},
			idOf: func(u *entity.Unit) string { return u.ID },
		},
		Priorities: &Lookup[entity.Priority]{
			repo:   repos.Priority,
			notify: n,
			newRow: func(id string) *entity.Priority { return &entity.Priority{ID: id} },
			apply: func(p *entity.Priority, req *LookupRequest) {
				p.Name, p.Description = req.Name, req.Description
			},
			idOf: func(p *entity.Priority) string { return p.ID },
		},
		TaskStatuses: &Lookup[entity.TaskStatus]{
			repo:   repos.TaskStatus,
			notify: n,
			newRow: func(id string) *entity.TaskStatus { return &entity.TaskStatus{ID: id} },
			apply: func(t *entity.TaskStatus, req *LookupRequest) {
				t.Name, t.Description = req.Name, req.Description
			},
			idOf: func(t *entity.TaskStatus) string { return t.ID },
		},
	}
}

// === 직원 ===

// EmployeeRequest 직원 등록/수정 요청
type EmployeeRequest struct {
	Name       string  `json:"name" binding:"required,max=100"`
	Department string  `json:"department" binding:"max=100"`
	Position   string  `json:"position" binding:"max=100"`
	Email      string  `json:"email" binding:"omitempty,email,max=200"`
	Phone      string  `json:"phone" binding:"max=50"`
	HireDate   *string `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
	Status     string  `json:"status"`
}

func (s *SettingsService) ListEmployees(ctx context.Context, q ListQuery) ([]entity.Employee, int64, error) {
	return s.repos.Employee.List(ctx, q.params())
}

func (s *SettingsService) GetEmployee(ctx context.Context, id string) (*entity.Employee, error) {
	return s.repos.Employee.FindByID(ctx, id)
}

func (s *SettingsService) CreateEmployee(ctx context.Context, req *EmployeeRequest) (*entity.Employee, error) {
	e := &entity.Employee{ID: entity.NewID()}
	if err := applyEmployee(e, req); err != nil {
		return nil, err
	}
	if err := s.repos.Employee.Create(ctx, e); err != nil {
		return nil, err
	}
	s.notify.created(ctx, entity.CollectionEmployees, e.ID)
	return e, nil
}

func (s *SettingsService) UpdateEmployee(ctx context.Context, id string, req *EmployeeRequest) (*entity.Employee, error) {
	e, err := s.repos.Employee.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyEmployee(e, req); err != nil {
		return nil, err
	}
	if err := s.repos.Employee.Save(ctx, e); err != nil {
		return nil, err
	}
	s.notify.updated(ctx, entity.CollectionEmployees, e.ID)
	return e, nil
}

func (s *SettingsService) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.repos.Employee.Delete(ctx, id); err != nil {
		return err
	}
	s.notify.deleted(ctx, entity.CollectionEmployees, id)
	return nil
}

func applyEmployee(e *entity.Employee, req *EmployeeRequest) error {
	status := req.Status
	if status == "" {
		status = entity.EmployeeStatusActive
	}
	if err := oneOf("status", status,
		entity.EmployeeStatusActive, entity.EmployeeStatusLeave, entity.EmployeeStatusTerminated); err != nil {
		return err
	}
	hired, err := parseOptionalDate("hire_date", req.HireDate)
	if err != nil {
		return err
	}
	e.Name = req.Name
	e.Department = req.Department
	e.Position = req.Position
	e.Email = req.Email
	e.Phone = req.Phone
	e.HireDate = hired
	e.Status = status
	return nil
}

// === 사이트 설정 ===

// SiteRequest 사이트 설정 저장 요청
type SiteRequest struct {
	SiteName     string `json:"site_name" binding:"max=200"`
	LogoURL      string `json:"logo_url" binding:"omitempty,url,max=500"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email,max=200"`
	Theme        string `json:"theme" binding:"omitempty,oneof=light dark system"`
}

// GetSite returns the site settings, or defaults when nothing was saved yet.
func (s *SettingsService) GetSite(ctx context.Context) (*entity.SiteSetting, error) {
	site, err := s.repos.Setting.GetSite(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return &entity.SiteSetting{SiteName: "DMC ERP", Theme: "light"}, nil
	}
	return site, err
}

func (s *SettingsService) SaveSite(ctx context.Context, userID string, req *SiteRequest) (*entity.SiteSetting, error) {
	site, err := s.repos.Setting.GetSite(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		site = &entity.SiteSetting{ID: entity.NewID()}
	} else if err != nil {
		return nil, err
	}
	site.SiteName = req.SiteName
	site.LogoURL = req.LogoURL
	site.ContactEmail = req.ContactEmail
	site.Theme = req.Theme
	if site.Theme == "" {
		site.Theme = "light"
	}
	site.UpdatedBy = userID
	if err := s.repos.Setting.SaveSite(ctx, site); err != nil {
		return nil, err
	}
	s.notify.updated(ctx, entity.CollectionSiteSettings, site.ID)
	return site, nil
}
