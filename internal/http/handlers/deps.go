package handlers

import (
	"github.com/jmoiron/sqlx"

	"mercadito/internal/config"
	"mercadito/internal/repos"
	"mercadito/internal/services"
)

type Deps struct {
	CatalogHandler   *CatalogHandler
	PurchaseHandler  *PurchaseHandler
	InventoryHandler *InventoryHandler
	AdminHandler     *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	prodRepo := repos.NewProductRepo(db)
	saleRepo := repos.NewSaleRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	invSvc := services.NewInventoryService(prodRepo)
	saleSvc := services.NewSaleService(prodRepo, saleRepo)

	return &Deps{
		CatalogHandler:   &CatalogHandler{Catalog: catalogSvc},
		PurchaseHandler:  &PurchaseHandler{Sales: saleSvc, Auth: auth},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		AdminHandler: &AdminHandler{
			Catalog: catalogSvc, Inv: invSvc, Sales: saleSvc,
			Users: userRepo, MediaDir: cfg.MediaDir,
		},
	}
}
