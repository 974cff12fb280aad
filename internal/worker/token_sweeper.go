package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SweepExpiredを持つもの（SessionUsecase）
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// 期限切れリフレッシュトークンを定期的に削除する
type TokenSweeper struct {
	sweeper  Sweeper
	interval time.Duration
	log      *zap.Logger
}

func NewTokenSweeper(s Sweeper, interval time.Duration, log *zap.Logger) *TokenSweeper {
	if log == nil {
		log = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &TokenSweeper{
		sweeper:  s,
		interval: interval,
		log:      log.Named("token_sweeper"),
	}
}

// ctxが終わるまでブロックする。起動直後に1回実行
func (w *TokenSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("token sweeper started", zap.Duration("interval", w.interval))
	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("token sweeper stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// エラーはログだけ。次のtickで再試行
func (w *TokenSweeper) RunOnce(ctx context.Context) {
	n, err := w.sweeper.SweepExpired(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.log.Error("sweep expired refresh tokens failed", zap.Error(err))
		return
	}
	if n > 0 {
		w.log.Info("swept expired refresh tokens", zap.Int64("deleted", n))
	}
}
