package analytics

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/domain/repository"
)

// StatsRepository puerto de conteos agregados para el panel admin.
type StatsRepository interface {
	CountProducts() (int, error)
	CountStudents() (int, error)
	CountOpenStockOrders() (int, error)
	CountPendingPresale() (int, error)
	CountOpenConversations() (int, error)
}

// UseCase arma el resumen del panel admin consultando los agregados en paralelo.
type UseCase struct {
	stats      StatsRepository
	walletRepo repository.WalletRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(stats StatsRepository, walletRepo repository.WalletRepository) *UseCase {
	return &UseCase{stats: stats, walletRepo: walletRepo}
}

// Dashboard devuelve los agregados del panel. Las consultas corren en paralelo;
// el primer error cancela el resto.
func (uc *UseCase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	var (
		out    dto.DashboardResponse
		volume decimal.Decimal
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Products, err = uc.stats.CountProducts()
		return
	})
	g.Go(func() (err error) {
		out.Students, err = uc.stats.CountStudents()
		return
	})
	g.Go(func() (err error) {
		out.OpenStockOrders, err = uc.stats.CountOpenStockOrders()
		return
	})
	g.Go(func() (err error) {
		out.PendingPresale, err = uc.stats.CountPendingPresale()
		return
	})
	g.Go(func() (err error) {
		out.OpenConversations, err = uc.stats.CountOpenConversations()
		return
	})
	g.Go(func() (err error) {
		volume, err = uc.walletRepo.SumCredits()
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.WalletVolume = volume.StringFixed(2)
	return &out, nil
}
