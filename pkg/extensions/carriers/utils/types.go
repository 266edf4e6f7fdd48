package utils

import "time"

// ShipmentStatus 本地托运单生命周期状态
type ShipmentStatus string

const (
	StatusCreated     ShipmentStatus = "created"      // 已创建
	StatusConfirmed   ShipmentStatus = "confirmed"    // 已确认
	StatusCollected   ShipmentStatus = "collected"    // 已揽收
	StatusInTransit   ShipmentStatus = "in_transit"   // 运输中
	StatusAtDepot     ShipmentStatus = "at_depot"     // 到达目的 Depot
	StatusOutDelivery ShipmentStatus = "out_delivery" // 派送中
	StatusDelivered   ShipmentStatus = "delivered"    // 已送达
	StatusError       ShipmentStatus = "error"        // 异常，任何状态均可进入
)

// Terminal 终态不再重新同步，也不会再迁移
func (s ShipmentStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusError
}

// Address 收发货地址
type Address struct {
	ContactName string   `json:"contact_name"`
	CompanyName string   `json:"company_name,omitempty"`
	Telephone   string   `json:"telephone,omitempty"`
	Lines       []string `json:"lines,omitempty"` // 最多5行
	Town        string   `json:"town"`
	County      string   `json:"county,omitempty"`
	PostCode    string   `json:"post_code"`
	CountryCode string   `json:"country_code"` // ISO 国家代码
}

// ShipmentRequest 单次提交的托运数据，不落库
type ShipmentRequest struct {
	Type            string `json:"type"` // D=Delivery, C=Collection, 3=Third Party
	ImportID        string `json:"import_id,omitempty"`
	Reference       string `json:"reference"` // 托运单号，留空时由提交方生成
	ClientReference string `json:"client_reference,omitempty"`
	PickingRef      string `json:"picking_ref,omitempty"`

	WeightKg  int `json:"weight_kg"`
	Lifts     int `json:"lifts"`
	LineItems int `json:"line_items"`

	ServiceCode   string `json:"service_code"`
	SurchargeCode string `json:"surcharge_code,omitempty"`

	// 留空时按重量分级表自动计算
	BillUnitType   string `json:"bill_unit_type,omitempty"`
	BillUnitAmount int    `json:"bill_unit_amount,omitempty"`

	Classification string `json:"classification,omitempty"` // B2B / B2C

	Handball      bool `json:"handball"`
	TailLift      bool `json:"tail_lift"`
	BookInRequest bool `json:"book_in_request"`

	BookInContactName  string `json:"book_in_contact_name,omitempty"`
	BookInContactPhone string `json:"book_in_contact_phone,omitempty"`
	BookInContactNote  string `json:"book_in_contact_note,omitempty"`
	BookInInstructions string `json:"book_in_instructions,omitempty"`

	ManifestNote string `json:"manifest_note,omitempty"`

	CollectionDate time.Time `json:"collection_date"`
	DeliveryDate   time.Time `json:"delivery_date,omitempty"`

	Collection Address `json:"collection"`
	Delivery   Address `json:"delivery"`

	NotificationEmail string `json:"notification_email,omitempty"`
	NotificationSMS   string `json:"notification_sms,omitempty"`
}

// Validate 聚合校验所有问题后一次性返回，调用方能一次修完数据
func (r *ShipmentRequest) Validate() error {
	verrs := &ValidationErrors{}

	if r.WeightKg < 1 {
		verrs.Add("shipment weight must be at least 1kg")
	}
	if r.LineItems < 1 {
		verrs.Add("shipment must contain at least one line item")
	}
	checkAddress(verrs, "collection", &r.Collection)
	checkAddress(verrs, "delivery", &r.Delivery)

	return verrs.OrNil()
}

func checkAddress(verrs *ValidationErrors, which string, addr *Address) {
	if addr.PostCode == "" {
		verrs.AddError(&MissingFieldError{Address: which, Field: "post code"})
	}
	if addr.CountryCode == "" {
		verrs.AddError(&MissingFieldError{Address: which, Field: "country"})
	}
	if addr.Town == "" {
		verrs.AddError(&MissingFieldError{Address: which, Field: "town"})
	}
	if addr.ContactName == "" {
		verrs.AddError(&MissingFieldError{Address: which, Field: "contact name"})
	}
}

// SubmissionResult 创建托运单的归一化结果
type SubmissionResult struct {
	TrackingID        string `json:"tracking_id"`
	ResponseID        string `json:"response_id"`
	ConsignmentNumber string `json:"consignment_number,omitempty"`
	Synthetic         bool   `json:"synthetic"` // 测试模式下本地合成的跟踪号
	RawResponse       string `json:"raw_response,omitempty"`
}

// StatusResult 承运商侧当前状态
type StatusResult struct {
	StatusCode        string `json:"status_code"`
	StatusDescription string `json:"status_description"`
	ConsignmentNumber string `json:"consignment_number,omitempty"`
	DeliveryDate      string `json:"delivery_date,omitempty"` // YYYY-MM-DD
	DeliveryTime      string `json:"delivery_time,omitempty"` // HH:MM
	RawResponse       string `json:"raw_response,omitempty"`
}

// ServiceOption availableServices 返回的一项可用服务
type ServiceOption struct {
	GroupCode string `json:"group_code"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	GroupName string `json:"group_name"`
	DaysMin   string `json:"days_min"`
	DaysMax   string `json:"days_max"`
}

// ConsignmentNote 承运商侧的跟踪备注
type ConsignmentNote struct {
	Date string `json:"date"`
	Time string `json:"time"`
	Text string `json:"text"`
}
