package member

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "chamasave-backend/internal/domain/member"
	"chamasave-backend/pkg/id"
)

type Usecase struct{ repo domain.Repository }

func NewUsecase(r domain.Repository) *Usecase { return &Usecase{repo: r} }

type RegisterInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*domain.Member, error) {
	if in.FullName == "" {
		return nil, errors.New("full name is required")
	}
	m := &domain.Member{
		MemberID: id.NewID32(),
		FullName: in.FullName,
		Email:    in.Email,
		Status:   domain.StatusActive,
	}
	if err := u.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (u *Usecase) Get(ctx context.Context, memberID string) (*domain.Member, error) {
	m, err := u.repo.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}
