package carriers

import (
	"github.com/flaboy/aira-freight/pkg/extensions/carriers/palletways"
	"github.com/flaboy/aira-freight/pkg/extensions/carriers/utils"
	"github.com/flaboy/aira-freight/pkg/models"
	"github.com/shopspring/decimal"
)

// CarrierProvider 定义托盘货运承运商的接口
type CarrierProvider interface {
	// 初始化服务
	Init() error

	// 提交托运单，成功返回归一化结果，失败时不产生任何本地副作用
	Submit(req *utils.ShipmentRequest, cred *models.CarrierCredential) (*utils.SubmissionResult, error)

	// 查询承运商侧当前状态
	FetchStatus(trackingID string, cred *models.CarrierCredential) (*utils.StatusResult, error)

	// 承运商状态码映射到本地生命周期状态，未知代码保持当前状态
	MapStatus(carrierCode string, current utils.ShipmentStatus) utils.ShipmentStatus

	// 标签与签收证明 PDF
	FetchLabel(trackingID string, cred *models.CarrierCredential) ([]byte, error)
	FetchPod(trackingID string, cred *models.CarrierCredential) ([]byte, error)

	// 跟踪备注
	FetchNotes(trackingID string, cred *models.CarrierCredential) ([]utils.ConsignmentNote, error)

	// 可用服务查询
	AvailableServices(consignmentType, originCountry, originPostcode, destCountry, destPostcode string,
		cred *models.CarrierCredential) ([]utils.ServiceOption, error)

	// 估算运费
	Quote(req *utils.ShipmentRequest) (decimal.Decimal, error)

	// 取消托运单；承运商不支持时必须直接失败且不发起网络调用
	Cancel(trackingID string) error

	GetTrackingUrl(trackingID string) string

	// 获取承运商名称
	GetProviderName() string
}

var providers map[string]CarrierProvider

func Get(name string) CarrierProvider {
	if providers == nil {
		return nil
	}
	return providers[name]
}

func Register(name string, provider CarrierProvider) {
	if providers == nil {
		providers = make(map[string]CarrierProvider)
	}
	if _, exists := providers[name]; exists {
		panic("Carrier provider already registered: " + name)
	}
	providers[name] = provider
}

func Init() {
	// Initialize all registered providers
	Register("palletways", &palletways.Palletways{})

	for _, provider := range providers {
		if err := provider.Init(); err != nil {
			panic(err)
		}
	}
}
