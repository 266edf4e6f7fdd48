package palletways

import (
	"encoding/xml"
	"time"

	"github.com/flaboy/aira-freight/pkg/extensions/carriers/utils"
	"github.com/flaboy/aira-freight/pkg/models"
)

// 承运商字段长度上限，超长静默截断
const (
	maxNameLen     = 50
	maxPhoneLen    = 20
	maxLineLen     = 50
	maxTownLen     = 30
	maxPostCodeLen = 10
	maxAddrLines   = 5
)

// truncate 按字符数截断，不能从多字节字符中间切开
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func boolFlag(b bool) string {
	if b {
		return "Y"
	}
	return ""
}

// BuildManifest 组装提交用的 Manifest。所有数据问题聚合后一次性返回
func BuildManifest(req *utils.ShipmentRequest, cred *models.CarrierCredential, now time.Time) (*Manifest, error) {
	verrs := &utils.ValidationErrors{}

	if req.WeightKg < 1 {
		verrs.Add("shipment weight must be at least 1kg")
	}
	if req.Lifts < 1 {
		verrs.Add("shipment must contain at least one pallet lift")
	}

	unitType := req.BillUnitType
	if unitType == "" {
		unitType = ClassifyBillUnit(float64(req.WeightKg), req.Lifts)
	}
	if cv := ValidateBillUnit(unitType, float64(req.WeightKg), req.Lifts); cv != nil {
		verrs.AddError(cv)
	}
	unitAmount := req.BillUnitAmount
	if unitAmount < 1 {
		unitAmount = req.Lifts
	}
	if unitAmount < 1 {
		unitAmount = 1
	}

	delivery := buildAddress("Delivery", &req.Delivery, verrs, "delivery")
	collection := buildAddress("Collection", &req.Collection, verrs, "collection")

	if err := verrs.OrNil(); err != nil {
		return nil, err
	}

	consignmentType := req.Type
	if consignmentType == "" {
		consignmentType = "D"
	}

	con := Consignment{
		Type:           consignmentType,
		ImportID:       req.ImportID,
		Reference:      req.Reference,
		Lifts:          req.Lifts,
		Weight:         req.WeightKg,
		Handball:       boolFlag(req.Handball),
		TailLift:       boolFlag(req.TailLift),
		Classification: req.Classification,
		ManifestNote:   req.ManifestNote,
		Service: ManifestService{
			Type:      "N",
			Code:      req.ServiceCode,
			Surcharge: req.SurchargeCode,
		},
		// 送货地址在前是承运商解析要求
		Address:  []ManifestAddress{delivery, collection},
		BillUnit: []BillUnit{{Type: unitType, Amount: unitAmount}},
	}
	if con.ImportID == "" {
		con.ImportID = req.Reference
	}

	if !req.CollectionDate.IsZero() {
		con.CollectionDate = req.CollectionDate.Format("2006-01-02")
	}
	if !req.DeliveryDate.IsZero() {
		con.DeliveryDate = req.DeliveryDate.Format("2006-01-02")
	}

	if req.BookInRequest {
		con.BookInRequest = "Y"
		con.BookInName = truncate(req.BookInContactName, maxNameLen)
		con.BookInPhone = truncate(req.BookInContactPhone, maxPhoneLen)
		con.BookInNote = req.BookInContactNote
		if con.BookInNote == "" {
			con.BookInNote = req.BookInInstructions
		}
	}

	if req.NotificationEmail != "" {
		con.Notification = append(con.Notification, NotificationSet{SysGroup: 1, Email: req.NotificationEmail})
	}
	if req.NotificationSMS != "" {
		con.Notification = append(con.Notification, NotificationSet{SysGroup: 3, SMSNumber: truncate(req.NotificationSMS, maxPhoneLen)})
	}

	return &Manifest{
		Date:    now.Format("2006-01-02"),
		Time:    now.Format("15:04"),
		Confirm: "Y",
		Depot: Depot{
			Code: cred.DepotCode,
			Account: Account{
				Code:        cred.AccountCode,
				Consignment: con,
			},
		},
	}, nil
}

func buildAddress(addrType string, addr *utils.Address, verrs *utils.ValidationErrors, which string) ManifestAddress {
	if addr.PostCode == "" {
		verrs.AddError(&utils.MissingFieldError{Address: which, Field: "post code"})
	}
	if addr.CountryCode == "" {
		verrs.AddError(&utils.MissingFieldError{Address: which, Field: "country"})
	}
	if addr.Town == "" {
		verrs.AddError(&utils.MissingFieldError{Address: which, Field: "town"})
	}
	if addr.ContactName == "" {
		verrs.AddError(&utils.MissingFieldError{Address: which, Field: "contact name"})
	}

	lines := addr.Lines
	if len(lines) > maxAddrLines {
		lines = lines[:maxAddrLines]
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		out = append(out, truncate(line, maxLineLen))
	}

	return ManifestAddress{
		Type:        addrType,
		ContactName: truncate(addr.ContactName, maxNameLen),
		CompanyName: truncate(addr.CompanyName, maxNameLen),
		Telephone:   truncate(addr.Telephone, maxPhoneLen),
		Line:        out,
		Town:        truncate(addr.Town, maxTownLen),
		County:      truncate(addr.County, maxTownLen),
		PostCode:    truncate(addr.PostCode, maxPostCodeLen),
		Country:     addr.CountryCode,
	}
}

// EncodeManifest 序列化为提交用的 XML 字符串
func EncodeManifest(m *Manifest) (string, error) {
	data, err := xml.Marshal(m)
	if err != nil {
		return "", err
	}
	return xml.Header + string(data), nil
}
