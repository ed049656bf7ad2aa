package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	employeeerrors "go-workforce/internal/employee/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	employeeAllKeyPrefix = "employees:all:"
	employeeCacheTTL     = 30 * time.Minute
)

func allCacheKey(companyID string) string {
	return employeeAllKeyPrefix + companyID
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
}

// Master data is read-only here: the pipeline consumes employees and rates,
// it never mutates them. Reads are cached in Redis and collapsed through
// singleflight so a payroll-sized burst hits the database once.
type service struct {
	repo Repository
	rdb  *redis.Client
	sf   *singleflight.Group
}

func NewService(repo Repository, rdb *redis.Client) Service {
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}}
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, employeeerrors.ErrInvalidCompanyID
	}

	cacheKey := allCacheKey(companyID)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp []EmployeeResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		rows, err := s.repo.FindAllByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(rows)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, employeeCacheTTL)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	key := fmt.Sprintf("employees:detail:%s:%s", companyID, id)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		e, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, employeeerrors.ErrEmployeeNotFound
			}
			return nil, err
		}
		return mapToResponse(*e), nil
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	return v.(EmployeeResponse), nil
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                 e.ID.String(),
		CompanyID:          e.CompanyID.String(),
		EmployeeNumber:     e.EmployeeNumber,
		FullName:           e.FullName,
		Email:              e.Email,
		Active:             e.Active,
		PayType:            e.PayType,
		PayFrequency:       e.PayFrequency,
		WorkingDaysPerWeek: e.WorkingDaysPerWeek,
	}
	if e.DepartmentID != nil {
		v := e.DepartmentID.String()
		resp.DepartmentID = &v
	}
	if e.HourlyRate != nil {
		v := e.HourlyRate.StringFixed(2)
		resp.HourlyRate = &v
	}
	if e.AnnualSalary != nil {
		v := e.AnnualSalary.StringFixed(2)
		resp.AnnualSalary = &v
	}
	if e.AttendanceRuleID != nil {
		v := e.AttendanceRuleID.String()
		resp.AttendanceRuleID = &v
	}
	return resp
}

func mapToListResponse(rows []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(rows))
	for i, e := range rows {
		resp[i] = mapToResponse(e)
	}
	return resp
}
