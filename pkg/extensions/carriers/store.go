package carriers

import (
	"time"

	"github.com/flaboy/aira-freight/pkg/database"
	"github.com/flaboy/aira-freight/pkg/errors"
	"github.com/flaboy/aira-freight/pkg/extensions/carriers/utils"
	"github.com/flaboy/aira-freight/pkg/models"
)

// ShipmentStore 托运单与凭证的持久化入口，便于测试替换
type ShipmentStore interface {
	CreateShipment(s *models.Shipment) error
	SaveShipment(s *models.Shipment) error
	ShipmentByID(id uint) (*models.Shipment, error)
	ShipmentByTracking(trackingID string) (*models.Shipment, error)
	// PendingShipments 指定时间之后创建、未到终态的托运单
	PendingShipments(since time.Time, limit int) ([]*models.Shipment, error)
	CredentialByID(id uint) (*models.CarrierCredential, error)
}

// GormStore 默认实现，落在宿主系统提供的数据库上
type GormStore struct{}

func NewGormStore() *GormStore {
	return &GormStore{}
}

func (g *GormStore) CreateShipment(s *models.Shipment) error {
	return database.Database().Create(s).Error
}

func (g *GormStore) SaveShipment(s *models.Shipment) error {
	return database.Database().Save(s).Error
}

func (g *GormStore) ShipmentByID(id uint) (*models.Shipment, error) {
	var shipment models.Shipment
	err := database.Database().Where("id = ?", id).First(&shipment).Error
	if err != nil {
		return nil, errors.ErrShipmentNotFound
	}
	return &shipment, nil
}

func (g *GormStore) ShipmentByTracking(trackingID string) (*models.Shipment, error) {
	var shipment models.Shipment
	err := database.Database().Where("tracking_id = ?", trackingID).First(&shipment).Error
	if err != nil {
		return nil, errors.ErrShipmentNotFound
	}
	return &shipment, nil
}

func (g *GormStore) PendingShipments(since time.Time, limit int) ([]*models.Shipment, error) {
	var shipments []*models.Shipment
	err := database.Database().
		Where("status NOT IN ?", []utils.ShipmentStatus{utils.StatusDelivered, utils.StatusError}).
		Where("created_at >= ?", since).
		Order("created_at asc").
		Limit(limit).
		Find(&shipments).Error
	return shipments, err
}

func (g *GormStore) CredentialByID(id uint) (*models.CarrierCredential, error) {
	var cred models.CarrierCredential
	err := database.Database().Where("id = ? AND active = ?", id, true).First(&cred).Error
	if err != nil {
		return nil, errors.ErrCredentialNotFound
	}
	return &cred, nil
}
