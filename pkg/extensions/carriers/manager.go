package carriers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/flaboy/aira-freight/pkg/config"
	"github.com/flaboy/aira-freight/pkg/errors"
	"github.com/flaboy/aira-freight/pkg/events"
	"github.com/flaboy/aira-freight/pkg/extensions/carriers/utils"
	"github.com/flaboy/aira-freight/pkg/models"
	"github.com/flaboy/aira-freight/pkg/types"
	"github.com/shopspring/decimal"
)

// CarrierManager 托运单管理器：串联校验、提交、状态同步与附件获取
type CarrierManager struct {
	store ShipmentStore
}

func NewCarrierManager() *CarrierManager {
	return &CarrierManager{store: NewGormStore()}
}

// NewCarrierManagerWithStore 测试时注入替代存储
func NewCarrierManagerWithStore(store ShipmentStore) *CarrierManager {
	return &CarrierManager{store: store}
}

// SubmitResult 暴露给宿主系统的提交结果
type SubmitResult struct {
	ShipmentID     uint            `json:"shipment_id"`
	TrackingNumber string          `json:"tracking_number"`
	ExactPrice     decimal.Decimal `json:"exact_price"`
}

// Submit 创建托运单。先完成全部本地校验再触网；网络调用开始后
// 任何失败都不会留下半成品记录，要么得到完整的托运单，要么什么都没发生。
func (m *CarrierManager) Submit(credentialID uint, req *utils.ShipmentRequest) (*SubmitResult, error) {
	cred, err := m.store.CredentialByID(credentialID)
	if err != nil {
		return nil, err
	}

	provider := Get(cred.Provider)
	if provider == nil {
		return nil, errors.ErrProviderNotFound
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	result, err := provider.Submit(req, cred)
	if err != nil {
		return nil, err
	}

	price, err := provider.Quote(req)
	if err != nil {
		slog.Warn("Rate quote failed, reporting zero price", "trackingID", result.TrackingID, "error", err)
		price = decimal.Zero
	}

	shipment := &models.Shipment{
		TrackingID:        result.TrackingID,
		ResponseID:        result.ResponseID,
		ConsignmentNumber: result.ConsignmentNumber,
		PickingRef:        req.PickingRef,
		CredentialID:      cred.ID,
		Status:            utils.StatusCreated,
		ServiceCode:       req.ServiceCode,
		WeightKg:          req.WeightKg,
		Pallets:           req.Lifts,
		BillUnitType:      req.BillUnitType,
		LastResponse:      result.RawResponse,
		CollectionDate:    &req.CollectionDate,
	}
	if shipment.ConsignmentNumber == "" {
		shipment.ConsignmentNumber = req.Reference
	}
	if !req.DeliveryDate.IsZero() {
		promised := req.DeliveryDate
		shipment.PromisedDeliveryDate = &promised
	}

	if err := m.store.CreateShipment(shipment); err != nil {
		return nil, err
	}

	slog.Info("Shipment created",
		"trackingID", result.TrackingID,
		"responseID", result.ResponseID,
		"service", req.ServiceCode,
		"weightKg", req.WeightKg,
		"synthetic", result.Synthetic)

	events.EmitShipmentCreated(&types.ShipmentCreatedEvent{
		TrackingID:        result.TrackingID,
		ResponseID:        result.ResponseID,
		ConsignmentNumber: shipment.ConsignmentNumber,
		ServiceCode:       req.ServiceCode,
		WeightKg:          req.WeightKg,
		Pallets:           req.Lifts,
		PickingRef:        req.PickingRef,
		TestMode:          cred.TestMode,
	})

	return &SubmitResult{
		ShipmentID:     shipment.ID,
		TrackingNumber: result.TrackingID,
		ExactPrice:     price,
	}, nil
}

// Resync 拉取承运商状态并回写。终态托运单直接返回，不触网、不产生审计记录。
func (m *CarrierManager) Resync(shipmentID uint) (*models.Shipment, error) {
	shipment, err := m.store.ShipmentByID(shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.Status.Terminal() {
		return shipment, nil
	}

	cred, err := m.store.CredentialByID(shipment.CredentialID)
	if err != nil {
		return nil, err
	}
	provider := Get(cred.Provider)
	if provider == nil {
		return nil, errors.ErrProviderNotFound
	}

	if shipment.IsTest() {
		return m.advanceTestShipment(shipment)
	}

	status, err := provider.FetchStatus(shipment.TrackingID, cred)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	oldStatus := shipment.Status
	newStatus := provider.MapStatus(status.StatusCode, shipment.Status)

	shipment.CarrierStatusCode = status.StatusCode
	shipment.CarrierStatusDesc = status.StatusDescription
	shipment.LastResponse = status.RawResponse
	shipment.LastSyncAt = &now
	if status.ConsignmentNumber != "" {
		shipment.ConsignmentNumber = status.ConsignmentNumber
	}

	if newStatus != oldStatus {
		shipment.Status = newStatus
		if newStatus == utils.StatusDelivered && status.DeliveryDate != "" {
			if ts, perr := time.Parse("2006-01-02 15:04", status.DeliveryDate+" "+deliveryTimeOrMidnight(status.DeliveryTime)); perr == nil {
				shipment.ActualDeliveryAt = &ts
			}
		}
	}

	if err := m.store.SaveShipment(shipment); err != nil {
		return nil, err
	}

	if newStatus != oldStatus {
		slog.Info("Shipment status changed",
			"trackingID", shipment.TrackingID,
			"from", oldStatus, "to", newStatus,
			"carrierCode", status.StatusCode)
		events.EmitShipmentStatusChanged(&types.ShipmentStatusChangedEvent{
			TrackingID:         shipment.TrackingID,
			OldStatus:          string(oldStatus),
			NewStatus:          string(newStatus),
			CarrierStatusCode:  status.StatusCode,
			CarrierDescription: status.StatusDescription,
		})
		utils.NotifyStatusUpdate(shipment.TrackingID, newStatus)
	}

	return shipment, nil
}

func deliveryTimeOrMidnight(t string) string {
	if t == "" {
		return "00:00"
	}
	return t
}

// 测试托运单没有承运商侧状态，按序推进一个状态模拟全链路
var testStatusSequence = []utils.ShipmentStatus{
	utils.StatusCreated, utils.StatusConfirmed, utils.StatusCollected,
	utils.StatusInTransit, utils.StatusAtDepot, utils.StatusOutDelivery,
}

func (m *CarrierManager) advanceTestShipment(shipment *models.Shipment) (*models.Shipment, error) {
	idx := -1
	for i, s := range testStatusSequence {
		if shipment.Status == s {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(testStatusSequence)-1 {
		return shipment, nil
	}

	oldStatus := shipment.Status
	now := time.Now()
	shipment.Status = testStatusSequence[idx+1]
	shipment.CarrierStatusDesc = "Simulated status (TEST shipment)"
	shipment.LastSyncAt = &now

	if err := m.store.SaveShipment(shipment); err != nil {
		return nil, err
	}

	events.EmitShipmentStatusChanged(&types.ShipmentStatusChangedEvent{
		TrackingID: shipment.TrackingID,
		OldStatus:  string(oldStatus),
		NewStatus:  string(shipment.Status),
	})
	utils.NotifyStatusUpdate(shipment.TrackingID, shipment.Status)
	return shipment, nil
}

// BatchResult 批量同步的逐项结果
type BatchResult struct {
	Updated int      `json:"updated"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// ResyncPending 同步近期未到终态的托运单。单个失败不会中止批次，
// 数量上限保护共享的速率配额。
func (m *CarrierManager) ResyncPending() (*BatchResult, error) {
	windowDays, batchLimit := 30, 50
	if config.Config != nil {
		if config.Config.Resync.WindowDays > 0 {
			windowDays = config.Config.Resync.WindowDays
		}
		if config.Config.Resync.BatchLimit > 0 {
			batchLimit = config.Config.Resync.BatchLimit
		}
	}

	since := time.Now().AddDate(0, 0, -windowDays)
	shipments, err := m.store.PendingShipments(since, batchLimit)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{}
	for _, shipment := range shipments {
		if _, err := m.Resync(shipment.ID); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", shipment.TrackingID, err))
			slog.Error("Shipment resync failed", "trackingID", shipment.TrackingID, "error", err)
			continue
		}
		result.Updated++
	}

	slog.Info("Batch resync finished", "updated", result.Updated, "failed", result.Failed)
	return result, nil
}

// FetchLabel 下载标签 PDF 并缓存在托运单上
func (m *CarrierManager) FetchLabel(shipmentID uint) ([]byte, error) {
	shipment, err := m.store.ShipmentByID(shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.IsTest() {
		return nil, errors.ErrTestShipmentArtifact
	}

	provider, cred, err := m.resolve(shipment)
	if err != nil {
		return nil, err
	}

	data, err := provider.FetchLabel(shipment.TrackingID, cred)
	if err != nil {
		return nil, err
	}

	shipment.LabelPDF = data
	if err := m.store.SaveShipment(shipment); err != nil {
		return nil, err
	}
	return data, nil
}

// FetchPod 下载签收证明，仅已送达的托运单可用
func (m *CarrierManager) FetchPod(shipmentID uint) ([]byte, error) {
	shipment, err := m.store.ShipmentByID(shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.IsTest() {
		return nil, errors.ErrTestShipmentArtifact
	}
	if shipment.Status != utils.StatusDelivered {
		return nil, errors.ErrShipmentNotDelivered
	}

	provider, cred, err := m.resolve(shipment)
	if err != nil {
		return nil, err
	}

	data, err := provider.FetchPod(shipment.TrackingID, cred)
	if err != nil {
		return nil, err
	}

	shipment.PodPDF = data
	if err := m.store.SaveShipment(shipment); err != nil {
		return nil, err
	}
	return data, nil
}

// FetchNotes 拉取承运商侧备注并合并到本地记录
func (m *CarrierManager) FetchNotes(shipmentID uint) ([]utils.ConsignmentNote, error) {
	shipment, err := m.store.ShipmentByID(shipmentID)
	if err != nil {
		return nil, err
	}

	provider, cred, err := m.resolve(shipment)
	if err != nil {
		return nil, err
	}

	notes, err := provider.FetchNotes(shipment.TrackingID, cred)
	if err != nil {
		return nil, err
	}

	text := ""
	for _, note := range notes {
		if note.Text == "" {
			continue
		}
		if text != "" {
			text += "\n"
		}
		text += fmt.Sprintf("%s %s: %s", note.Date, note.Time, note.Text)
	}
	if text != "" {
		shipment.Notes = text
		if err := m.store.SaveShipment(shipment); err != nil {
			return nil, err
		}
	}
	return notes, nil
}

// Cancel 取消托运单。承运商不支持取消，provider 会直接拒绝且不触网。
func (m *CarrierManager) Cancel(shipmentID uint) error {
	shipment, err := m.store.ShipmentByID(shipmentID)
	if err != nil {
		return err
	}
	provider, _, err := m.resolve(shipment)
	if err != nil {
		return err
	}
	return provider.Cancel(shipment.TrackingID)
}

// TrackingURL 托运单的对外跟踪链接
func (m *CarrierManager) TrackingURL(shipmentID uint) (string, error) {
	shipment, err := m.store.ShipmentByID(shipmentID)
	if err != nil {
		return "", err
	}
	provider, _, err := m.resolve(shipment)
	if err != nil {
		return "", err
	}
	return provider.GetTrackingUrl(shipment.TrackingID), nil
}

func (m *CarrierManager) resolve(shipment *models.Shipment) (CarrierProvider, *models.CarrierCredential, error) {
	cred, err := m.store.CredentialByID(shipment.CredentialID)
	if err != nil {
		return nil, nil, err
	}
	provider := Get(cred.Provider)
	if provider == nil {
		return nil, nil, errors.ErrProviderNotFound
	}
	return provider, cred, nil
}
