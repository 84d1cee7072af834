package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/chatshop-backend/pkg/db/models"
	"github.com/angelmondragon/chatshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/chatshop-backend/pkg/errors"
	"github.com/angelmondragon/chatshop-backend/pkg/pagination"
)

// adminPageSize is the page size of the admin product pickers.
const adminPageSize = 10

// Service exposes catalog operations used by the dialog engine.
type Service interface {
	AddProduct(ctx context.Context, input NewProductInput) (*models.Product, error)
	Product(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Browse(ctx context.Context, page int) (*BrowsePage, error)
	AdminListing(ctx context.Context, page int) (*BrowsePage, error)
	SetStock(ctx context.Context, id uuid.UUID, stock int) error
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	SetAddress(ctx context.Context, address string) error
	Address(ctx context.Context) (string, error)
}

// NewProductInput carries the fields collected by the add-product flow.
type NewProductInput struct {
	Name        string
	Price       int64
	Stock       int
	MediaRef    string
	MediaKind   enums.MediaKind
	Description string
}

// BrowsePage is one page of the catalog. Page math uses the count of all
// products; Browse keeps only the in-stock ones in Products.
type BrowsePage struct {
	Page     pagination.Page
	Products []models.Product
}

type service struct {
	repo           Repository
	pageSize       int
	defaultAddress string
}

// ServiceParams groups the catalog service dependencies.
type ServiceParams struct {
	Repo           Repository
	PageSize       int
	DefaultAddress string
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{
		repo:           params.Repo,
		pageSize:       pagination.NormalizeSize(params.PageSize),
		defaultAddress: params.DefaultAddress,
	}, nil
}

func (s *service) AddProduct(ctx context.Context, input NewProductInput) (*models.Product, error) {
	switch {
	case strings.TrimSpace(input.Name) == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	case input.Price < 0:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	case input.Stock < 0:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	case input.MediaRef == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product media is required")
	}
	kind := input.MediaKind
	if !kind.IsValid() {
		kind = enums.MediaKindImage
	}

	product := &models.Product{
		Name:        input.Name,
		Price:       input.Price,
		Stock:       input.Stock,
		MediaRef:    input.MediaRef,
		MediaKind:   kind,
		Description: input.Description,
	}
	if err := s.repo.Insert(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) Product(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Browse(ctx context.Context, index int) (*BrowsePage, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	page := pagination.New(index, s.pageSize, total)
	rows, err := s.repo.List(ctx, page.Offset(), page.Size)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Product, 0, len(rows))
	for _, product := range rows {
		if product.Stock > 0 {
			visible = append(visible, product)
		}
	}
	return &BrowsePage{Page: page, Products: visible}, nil
}

// AdminListing pages over every product, out of stock included. An index
// past the end is clamped to the last page.
func (s *service) AdminListing(ctx context.Context, index int) (*BrowsePage, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	page := pagination.New(index, adminPageSize, total)
	if last := page.Count() - 1; page.Index > last {
		page.Index = last
	}
	rows, err := s.repo.List(ctx, page.Offset(), page.Size)
	if err != nil {
		return nil, err
	}
	return &BrowsePage{Page: page, Products: rows}, nil
}

func (s *service) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	return s.repo.SetStock(ctx, id, stock)
}

// DecrementStock removes qty units, never dropping below zero.
func (s *service) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return s.repo.AdjustStock(ctx, id, -qty)
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) SetAddress(ctx context.Context, address string) error {
	if strings.TrimSpace(address) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	return s.repo.UpsertShopInfo(ctx, address)
}

// Address returns the shop address, or the configured default when unset.
func (s *service) Address(ctx context.Context) (string, error) {
	info, err := s.repo.GetShopInfo(ctx)
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return s.defaultAddress, nil
	}
	if err != nil {
		return "", err
	}
	return info.Address, nil
}
