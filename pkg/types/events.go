package types

// ShipmentCreatedEvent 托运单创建成功后发出
type ShipmentCreatedEvent struct {
	TrackingID        string `json:"tracking_id"`
	ResponseID        string `json:"response_id"`
	ConsignmentNumber string `json:"consignment_number"`
	ServiceCode       string `json:"service_code"`
	WeightKg          int    `json:"weight_kg"`
	Pallets           int    `json:"pallets"`
	PickingRef        string `json:"picking_ref"` // 来源单据编号
	TestMode          bool   `json:"test_mode"`
}

// ShipmentStatusChangedEvent 每次观察到生命周期状态迁移时发出
type ShipmentStatusChangedEvent struct {
	TrackingID         string `json:"tracking_id"`
	OldStatus          string `json:"old_status"`
	NewStatus          string `json:"new_status"`
	CarrierStatusCode  string `json:"carrier_status_code"`
	CarrierDescription string `json:"carrier_description"`
}
