package repository

import (
	"context"

	repo "sportsbooking/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	users         repo.UserRepository
	refreshTokens repo.RefreshTokenRepository
	pricings      repo.PricingRepository
}

func (r *txReposGorm) Users() repo.UserRepository                 { return r.users }
func (r *txReposGorm) RefreshTokens() repo.RefreshTokenRepository { return r.refreshTokens }
func (r *txReposGorm) Pricings() repo.PricingRepository           { return r.pricings }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			users:         NewUserGormRepository(tx),
			refreshTokens: NewRefreshTokenRepository(tx),
			pricings:      NewPricingGormRepository(tx),
		}
		return fn(r)
	})
}
