package palletways

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/flaboy/aira-freight/pkg/errors"
	"github.com/flaboy/aira-freight/pkg/extensions/carriers/utils"
	"github.com/flaboy/aira-freight/pkg/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const trackingURLTemplate = "https://track2.palletways.com/?dc_syscon=%s"

// Palletways 英国托盘网络承运商
type Palletways struct {
	transport *transport
}

func (p *Palletways) Init() error {
	p.transport = newTransport()
	return nil
}

func (p *Palletways) GetProviderName() string {
	return "palletways"
}

func (p *Palletways) GetTrackingUrl(trackingID string) string {
	return fmt.Sprintf(trackingURLTemplate, trackingID)
}

func checkCredential(cred *models.CarrierCredential) error {
	if cred == nil {
		return errors.ErrCredentialNotFound
	}
	if cred.Endpoint == "" || cred.ApiKey == "" || cred.DepotCode == "" || cred.AccountCode == "" {
		return errors.ErrCredentialIncomplete
	}
	return nil
}

// Submit 编码 Manifest 并提交。测试模式下 commit=no，承运商只做校验不入网
func (p *Palletways) Submit(req *utils.ShipmentRequest, cred *models.CarrierCredential) (*utils.SubmissionResult, error) {
	if err := checkCredential(cred); err != nil {
		return nil, err
	}
	if err := ValidateServiceCode(req.ServiceCode); err != nil {
		return nil, err
	}

	if req.Reference == "" {
		req.Reference = generateReference()
	}
	if req.CollectionDate.IsZero() {
		req.CollectionDate = time.Now().AddDate(0, 0, 1)
	}
	if req.DeliveryDate.IsZero() {
		req.DeliveryDate = EstimateDeliveryDate(req.ServiceCode, req.CollectionDate)
	}
	// 重量超限时自动补上尾板与预约标记
	if NeedsTailLift(req.WeightKg) {
		req.TailLift = true
	}
	if NeedsBookIn(req.WeightKg) {
		req.BookInRequest = true
	}
	if req.BillUnitType == "" {
		req.BillUnitType = ClassifyBillUnit(float64(req.WeightKg), req.Lifts)
	}

	manifest, err := BuildManifest(req, cred, time.Now())
	if err != nil {
		return nil, err
	}
	payload, err := EncodeManifest(manifest)
	if err != nil {
		return nil, err
	}

	commit := "yes"
	if cred.TestMode {
		commit = "no"
	}

	n, raw, err := p.transport.send(cred, &apiCall{
		method:   "POST",
		endpoint: "createConsignment",
		params: map[string]string{
			"inputformat": "xml",
			"commit":      commit,
		},
		form:    map[string]string{"data": payload},
		payload: payload,
		timeout: submitTimeout,
	})
	if err != nil {
		return nil, err
	}

	result, err := interpretSubmission(n, req.Reference, cred.TestMode, string(raw))
	if err != nil {
		return nil, err
	}

	slog.Info("Consignment submitted",
		"trackingID", result.TrackingID,
		"reference", req.Reference,
		"commit", commit,
		"synthetic", result.Synthetic)
	return result, nil
}

// generateReference 承运商要求数字参考号，取 UUID 的十位数字
func generateReference() string {
	var digits strings.Builder
	for digits.Len() < 10 {
		for _, r := range uuid.NewString() {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
				if digits.Len() >= 10 {
					break
				}
			}
		}
	}
	return digits.String()
}

// FetchStatus 后台同步调用，配额耗尽时阻塞等待窗口重置
func (p *Palletways) FetchStatus(trackingID string, cred *models.CarrierCredential) (*utils.StatusResult, error) {
	if err := checkCredential(cred); err != nil {
		return nil, err
	}

	n, raw, err := p.transport.send(cred, &apiCall{
		method:   "GET",
		endpoint: "conStatusByTrackingId/" + trackingID,
		fallback: "getConsignment/" + trackingID,
		timeout:  submitTimeout,
		wait:     true,
	})
	if err != nil {
		return nil, err
	}
	return interpretStatus(n, string(raw))
}

func (p *Palletways) MapStatus(carrierCode string, current utils.ShipmentStatus) utils.ShipmentStatus {
	return MapStatusCode(carrierCode, current)
}

func (p *Palletways) FetchLabel(trackingID string, cred *models.CarrierCredential) ([]byte, error) {
	return p.fetchBinary(trackingID, cred, "getLabelsByTID/"+trackingID, "getLabelsByConNo/"+trackingID)
}

func (p *Palletways) FetchPod(trackingID string, cred *models.CarrierCredential) ([]byte, error) {
	return p.fetchBinary(trackingID, cred, "getPodByTrackingId/"+trackingID, "")
}

func (p *Palletways) fetchBinary(trackingID string, cred *models.CarrierCredential, endpoint, fallback string) ([]byte, error) {
	if err := checkCredential(cred); err != nil {
		return nil, err
	}

	n, raw, err := p.transport.send(cred, &apiCall{
		method:   "GET",
		endpoint: endpoint,
		fallback: fallback,
		timeout:  binaryTimeout,
		wait:     true,
	})
	if err != nil {
		return nil, err
	}
	if !n.IsEmpty() || len(raw) == 0 {
		// 拿到了结构化响应而不是 PDF，多半是承运商侧还没生成文件
		return nil, &utils.CarrierError{Description: "carrier returned no document for " + trackingID}
	}
	return raw, nil
}

func (p *Palletways) FetchNotes(trackingID string, cred *models.CarrierCredential) ([]utils.ConsignmentNote, error) {
	if err := checkCredential(cred); err != nil {
		return nil, err
	}

	n, _, err := p.transport.send(cred, &apiCall{
		method:   "GET",
		endpoint: "getNotes/trackingId/" + trackingID,
		timeout:  submitTimeout,
		wait:     true,
	})
	if err != nil {
		return nil, err
	}
	return interpretNotes(n)
}

func (p *Palletways) AvailableServices(consignmentType, originCountry, originPostcode, destCountry, destPostcode string,
	cred *models.CarrierCredential) ([]utils.ServiceOption, error) {
	if err := checkCredential(cred); err != nil {
		return nil, err
	}
	if consignmentType == "" {
		consignmentType = "D"
	}

	endpoint := strings.Join([]string{
		"availableServices", consignmentType,
		url.PathEscape(originCountry), url.PathEscape(originPostcode),
		url.PathEscape(destCountry), url.PathEscape(destPostcode),
	}, "/")

	n, _, err := p.transport.send(cred, &apiCall{
		method:   "GET",
		endpoint: endpoint,
		timeout:  submitTimeout,
	})
	if err != nil {
		return nil, err
	}
	return interpretServices(n)
}

func (p *Palletways) Quote(req *utils.ShipmentRequest) (decimal.Decimal, error) {
	if err := ValidateServiceCode(req.ServiceCode); err != nil {
		return decimal.Zero, err
	}
	return QuoteShipment(req), nil
}

// Cancel 承运商没有取消接口，不触网直接拒绝
func (p *Palletways) Cancel(trackingID string) error {
	return errors.ErrCancelUnsupported
}

// TestConnection 用服务目录查询探活，校验凭证可用性
func (p *Palletways) TestConnection(cred *models.CarrierCredential) error {
	_, err := p.AvailableServices("D", "UK", "B11AA", "UK", "M11AA", cred)
	return err
}
