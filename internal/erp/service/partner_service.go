package service

import (
	"context"

	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"github.com/Unload-CM/dmc-erp/internal/erp/repository"
	"github.com/Unload-CM/dmc-erp/internal/erp/rules"
)

var partnerStatuses = []string{entity.PartnerStatusActive, entity.PartnerStatusHold, entity.PartnerStatusInactive}

// PartnerService 거래처 서비스 (공급업체, 고객사)
type PartnerService struct {
	repos  *repository.Repositories
	notify *notifier
}

func NewPartnerService(repos *repository.Repositories, n *notifier) *PartnerService {
	return &PartnerService{repos: repos, notify: n}
}

// VendorRequest 공급업체 등록/수정 요청
type VendorRequest struct {
	Name          string  `json:"name" binding:"required,max=200"`
	ShortName     string  `json:"short_name" binding:"max=50"`
	ProductName   string  `json:"product_name" binding:"max=200"`
	UnitPrice     float64 `json:"unit_price" binding:"gte=0,lte=99999999.9999"`
	UpdatedPrice  float64 `json:"updated_price" binding:"gte=0,lte=99999999.9999"`
	Location      string  `json:"location" binding:"max=200"`
	ContactPerson string  `json:"contact_person" binding:"max=100"`
	PhoneNumber   string  `json:"phone_number" binding:"max=50"`
	Status        string  `json:"status"`
}

func (s *PartnerService) ListVendors(ctx context.Context, q ListQuery) ([]entity.Vendor, int64, error) {
	return s.repos.Vendor.List(ctx, q.params())
}

func (s *PartnerService) GetVendor(ctx context.Context, id string) (*entity.Vendor, error) {
	return s.repos.Vendor.FindByID(ctx, id)
}

func (s *PartnerService) CreateVendor(ctx context.Context, req *VendorRequest) (*entity.Vendor, error) {
	v := &entity.Vendor{ID: entity.NewID()}
	if err := applyVendor(v, req); err != nil {
		return nil, err
	}
	if err := s.repos.Vendor.Create(ctx, v); err != nil {
		return nil, err
	}
	s.notify.created(ctx, entity.CollectionVendors, v.ID)
	return v, nil
}

func (s *PartnerService) UpdateVendor(ctx context.Context, id string, req *VendorRequest) (*entity.Vendor, error) {
	v, err := s.repos.Vendor.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyVendor(v, req); err != nil {
		return nil, err
	}
	if err := s.repos.Vendor.Save(ctx, v); err != nil {
		return nil, err
	}
	s.notify.updated(ctx, entity.CollectionVendors, v.ID)
	return v, nil
}

func (s *PartnerService) DeleteVendor(ctx context.Context, id string) error {
	if err := s.repos.Vendor.Delete(ctx, id); err != nil {
		return err
	}
	s.notify.deleted(ctx, entity.CollectionVendors, id)
	return nil
}

func applyVendor(v *entity.Vendor, req *VendorRequest) error {
	status := req.Status
	if status == "" {
		status = entity.PartnerStatusActive
	}
	if err := oneOf("status", status, partnerStatuses...); err != nil {
		return err
	}
	v.Name = req.Name
	v.ShortName = req.ShortName
	v.ProductName = req.ProductName
	v.UnitPrice = req.UnitPrice
	v.UpdatedPrice = req.UpdatedPrice
	v.Location = req.Location
	v.ContactPerson = req.ContactPerson
	v.PhoneNumber = req.PhoneNumber
	v.Status = status
	return nil
}

// ClientRequest 고객사 등록/수정 요청
type ClientRequest struct {
	Name          string `json:"name" binding:"required,max=200"`
	ContactPerson string `json:"contact_person" binding:"max=100"`
	PhoneNumber   string `json:"phone_number" binding:"max=50"`
	Email         string `json:"email" binding:"omitempty,email,max=200"`
	Address       string `json:"address" binding:"max=500"`
	Status        string `json:"status"`
}

func (s *PartnerService) ListClients(ctx context.Context, q ListQuery) ([]entity.Client, int64, error) {
	return s.repos.Client.List(ctx, q.params())
}

func (s *PartnerService) GetClient(ctx context.Context, id string) (*entity.Client, error) {
	return s.repos.Client.FindByID(ctx, id)
}

func (s *PartnerService) CreateClient(ctx context.Context, req *ClientRequest) (*entity.Client, error) {
	c := &entity.Client{ID: entity.NewID()}
	if err := applyClient(c, req); err != nil {
		return nil, err
	}
	if err := s.repos.Client.Create(ctx, c); err != nil {
		return nil, err
	}
	s.notify.created(ctx, entity.CollectionClients, c.ID)
	return c, nil
}

func (s *PartnerService) UpdateClient(ctx context.Context, id string, req *ClientRequest) (*entity.Client, error) {
	c, err := s.repos.Client.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyClient(c, req); err != nil {
		return nil, err
	}
	if err := s.repos.Client.Save(ctx, c); err != nil {
		return nil, err
	}
	s.notify.updated(ctx, entity.CollectionClients, c.ID)
	return c, nil
}

func (s *PartnerService) DeleteClient(ctx context.Context, id string) error {
	if err := s.repos.Client.Delete(ctx, id); err != nil {
		return err
	}
	s.notify.deleted(ctx, entity.CollectionClients, id)
	return nil
}

func applyClient(c *entity.Client, req *ClientRequest) error {
	status := req.Status
	if status == "" {
		status = entity.PartnerStatusActive
	}
	if err := oneOf("status", status, partnerStatuses...); err != nil {
		return err
	}
	c.Name = req.Name
	c.ContactPerson = req.ContactPerson
	c.PhoneNumber = req.PhoneNumber
	c.Email = req.Email
	c.Address = req.Address
	c.Status = status
	return nil
}

// ShippingService 출하계획 서비스
type ShippingService struct {
	repos  *repository.Repositories
	notify *notifier
}

func NewShippingService(repos *repository.Repositories, n *notifier) *ShippingService {
	return &ShippingService{repos: repos, notify: n}
}

// ShippingRequest 출하계획 등록/수정 요청
type ShippingRequest struct {
	ModelName  string  `json:"model_name" binding:"required,max=100"`
	ClientName string  `json:"client_name" binding:"required,max=200"`
	Quantity   float64 `json:"quantity" binding:"required,gt=0,lte=99999999.9999"`
	UnitPrice  float64 `json:"unit_price" binding:"gte=0,lte=99999999.9999"`
	ETD        *string `json:"etd" binding:"omitempty,datetime=2006-01-02"`
	ETA        *string `json:"eta" binding:"omitempty,datetime=2006-01-02"`
	Status     string  `json:"status"`
	Notes      string  `json:"notes"`
}

func (s *ShippingService) List(ctx context.Context, q ListQuery) ([]entity.ShippingPlan, int64, error) {
	return s.repos.Shipping.List(ctx, q.params())
}

func (s *ShippingService) Get(ctx context.Context, id string) (*entity.ShippingPlan, error) {
	return s.repos.Shipping.FindByID(ctx, id)
}

func (s *ShippingService) Create(ctx context.Context, userID string, req *ShippingRequest) (*entity.ShippingPlan, error) {
	sp := &entity.ShippingPlan{ID: entity.NewID(), CreatedBy: userID}
	if err := applyShipping(sp, req); err != nil {
		return nil, err
	}
	if err := s.repos.Shipping.Create(ctx, sp); err != nil {
		return nil, err
	}
	s.notify.created(ctx, entity.CollectionShippingPlans, sp.ID)
	return sp, nil
}

// Update replaces the plan fields; total_amount always follows quantity and price.
func (s *ShippingService) Update(ctx context.Context, id string, req *ShippingRequest) (*entity.ShippingPlan, error) {
	sp, err := s.repos.Shipping.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyShipping(sp, req); err != nil {
		return nil, err
	}
	if err := s.repos.Shipping.Save(ctx, sp); err != nil {
		return nil, err
	}
	s.notify.updated(ctx, entity.CollectionShippingPlans, sp.ID)
	return sp, nil
}

func (s *ShippingService) Delete(ctx context.Context, id string) error {
	if err := s.repos.Shipping.Delete(ctx, id); err != nil {
		return err
	}
	s.notify.deleted(ctx, entity.CollectionShippingPlans, id)
	return nil
}

func applyShipping(sp *entity.ShippingPlan, req *ShippingRequest) error {
	status := req.Status
	if status == "" {
		status = entity.ShippingStatusPlanned
	}
	if err := oneOf("status", status,
		entity.ShippingStatusPlanned, entity.ShippingStatusShipped,
		entity.ShippingStatusDelivered, entity.ShippingStatusCancelled); err != nil {
		return err
	}
	etd, err := parseOptionalDate("etd", req.ETD)
	if err != nil {
		return err
	}
	eta, err := parseOptionalDate("eta", req.ETA)
	if err != nil {
		return err
	}
	if etd != nil && eta != nil && eta.Before(*etd) {
		return invalid("eta", "도착 예정일은 출발 예정일 이후여야 합니다")
	}

	sp.ModelName = req.ModelName
	sp.ClientName = req.ClientName
	sp.Quantity = req.Quantity
	sp.UnitPrice = req.UnitPrice
	sp.TotalAmount = rules.TotalAmount(req.Quantity, req.UnitPrice)
	sp.ETD = etd
	sp.ETA = eta
	sp.Status = status
	sp.Notes = req.Notes
	return nil
}
