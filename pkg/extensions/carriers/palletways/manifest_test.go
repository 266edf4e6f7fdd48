package palletways

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/flaboy/aira-freight/pkg/extensions/carriers/utils"
	"github.com/flaboy/aira-freight/pkg/models"
)

func testCredential() *models.CarrierCredential {
	return &models.CarrierCredential{
		ID:          1,
		Provider:    "palletways",
		Endpoint:    "https://api.palletways.example/",
		ApiKey:      "apikey-0123456789abcdef",
		DepotCode:   "086",
		AccountCode: "ACC001",
		TestMode:    true,
	}
}

func validRequest() *utils.ShipmentRequest {
	return &utils.ShipmentRequest{
		Type:        "D",
		Reference:   "1234567890",
		WeightKg:    250,
		Lifts:       1,
		LineItems:   1,
		ServiceCode: "A",
		Collection: utils.Address{
			ContactName: "Warehouse Team",
			CompanyName: "Sender Ltd",
			Telephone:   "01212345678",
			Lines:       []string{"1 Industrial Way"},
			Town:        "Birmingham",
			PostCode:    "B1 1AA",
			CountryCode: "UK",
		},
		Delivery: utils.Address{
			ContactName: "Jo Bloggs",
			Telephone:   "01619876543",
			Lines:       []string{"2 High Street"},
			Town:        "Manchester",
			PostCode:    "M1 1AA",
			CountryCode: "UK",
		},
		CollectionDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		DeliveryDate:   time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildManifestAggregatesMissingFields(t *testing.T) {
	req := validRequest()
	req.Delivery.PostCode = ""
	req.Delivery.ContactName = ""
	req.Collection.Town = ""

	_, err := BuildManifest(req, testCredential(), time.Now())
	if err == nil {
		t.Fatal("expected validation error")
	}

	var missing *utils.MissingFieldError
	if !stderrors.As(err, &missing) {
		t.Fatalf("error chain contains no MissingFieldError: %v", err)
	}

	msg := err.Error()
	for _, want := range []string{"delivery address: missing post code", "delivery address: missing contact name", "collection address: missing town"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestBuildManifestRejectsZeroWeight(t *testing.T) {
	req := validRequest()
	req.WeightKg = 0
	if _, err := BuildManifest(req, testCredential(), time.Now()); err == nil {
		t.Fatal("expected error for zero weight")
	}
}

func TestBuildManifestDeliveryAddressFirst(t *testing.T) {
	m, err := BuildManifest(validRequest(), testCredential(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	addrs := m.Depot.Account.Consignment.Address
	if len(addrs) != 2 {
		t.Fatalf("got %d addresses, want 2", len(addrs))
	}
	if addrs[0].Type != "Delivery" || addrs[1].Type != "Collection" {
		t.Errorf("address order = [%s, %s], want [Delivery, Collection]", addrs[0].Type, addrs[1].Type)
	}

	xmlStr, err := EncodeManifest(m)
	if err != nil {
		t.Fatal(err)
	}
	delIdx := strings.Index(xmlStr, `Type="Delivery"`)
	colIdx := strings.Index(xmlStr, `Type="Collection"`)
	if delIdx < 0 || colIdx < 0 || delIdx > colIdx {
		t.Errorf("marshaled XML does not place delivery before collection")
	}
}

func TestBuildManifestTruncation(t *testing.T) {
	req := validRequest()
	req.Delivery.ContactName = strings.Repeat("N", 80)
	req.Delivery.Telephone = strings.Repeat("7", 40)
	req.Delivery.Town = strings.Repeat("T", 60)
	req.Delivery.PostCode = strings.Repeat("P", 20)
	req.Delivery.Lines = []string{strings.Repeat("L", 90), "", "a", "b", "c", "d", "e"}

	m, err := BuildManifest(req, testCredential(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	addr := m.Depot.Account.Consignment.Address[0]
	if len(addr.ContactName) != 50 {
		t.Errorf("contact name length = %d, want 50", len(addr.ContactName))
	}
	if len(addr.Telephone) != 20 {
		t.Errorf("telephone length = %d, want 20", len(addr.Telephone))
	}
	if len(addr.Town) != 30 {
		t.Errorf("town length = %d, want 30", len(addr.Town))
	}
	if len(addr.PostCode) != 10 {
		t.Errorf("post code length = %d, want 10", len(addr.PostCode))
	}
	if len(addr.Line) > 4 {
		t.Errorf("got %d lines, want at most 4 after trimming to 5 and dropping empties", len(addr.Line))
	}
	if len(addr.Line[0]) != 50 {
		t.Errorf("line length = %d, want 50", len(addr.Line[0]))
	}
}

func TestBuildManifestTruncationKeepsRunesIntact(t *testing.T) {
	req := validRequest()
	req.Delivery.ContactName = strings.Repeat("é", 60)
	req.Delivery.Town = "Müllheim-" + strings.Repeat("ß", 40)

	m, err := BuildManifest(req, testCredential(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	addr := m.Depot.Account.Consignment.Address[0]
	if !utf8.ValidString(addr.ContactName) || !utf8.ValidString(addr.Town) {
		t.Fatal("truncation split a multi-byte character")
	}
	if got := utf8.RuneCountInString(addr.ContactName); got != 50 {
		t.Errorf("contact name rune count = %d, want 50", got)
	}
	if got := utf8.RuneCountInString(addr.Town); got != 30 {
		t.Errorf("town rune count = %d, want 30", got)
	}

	xmlStr, err := EncodeManifest(m)
	if err != nil {
		t.Fatal(err)
	}
	if !utf8.ValidString(xmlStr) {
		t.Error("marshaled XML contains invalid UTF-8")
	}
}

func TestBuildManifestBillUnitAutoClassified(t *testing.T) {
	req := validRequest()
	req.WeightKg = 250
	m, err := BuildManifest(req, testCredential(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	units := m.Depot.Account.Consignment.BillUnit
	if len(units) != 1 || units[0].Type != "QP" || units[0].Amount != 1 {
		t.Errorf("bill units = %v, want [{QP 1}]", units)
	}
}

func TestBuildManifestBillUnitOverrideValidated(t *testing.T) {
	req := validRequest()
	req.WeightKg = 900
	req.BillUnitType = "QP"

	_, err := BuildManifest(req, testCredential(), time.Now())
	if err == nil {
		t.Fatal("expected constraint violation for 900kg on QP")
	}
	var cv *utils.ConstraintViolation
	if !stderrors.As(err, &cv) {
		t.Fatalf("error chain contains no ConstraintViolation: %v", err)
	}
}

func TestBuildManifestBookInAndNotifications(t *testing.T) {
	req := validRequest()
	req.BookInRequest = true
	req.BookInContactName = "Reception"
	req.BookInContactPhone = "01210001111"
	req.NotificationEmail = "ops@example.com"
	req.NotificationSMS = "07700900000"

	m, err := BuildManifest(req, testCredential(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	con := m.Depot.Account.Consignment
	if con.BookInRequest != "Y" || con.BookInName != "Reception" {
		t.Errorf("book-in fields not set: %+v", con)
	}
	if len(con.Notification) != 2 {
		t.Fatalf("got %d notification sets, want 2", len(con.Notification))
	}
	if con.Notification[0].SysGroup != 1 || con.Notification[0].Email != "ops@example.com" {
		t.Errorf("email notification = %+v", con.Notification[0])
	}
	if con.Notification[1].SysGroup != 3 || con.Notification[1].SMSNumber != "07700900000" {
		t.Errorf("sms notification = %+v", con.Notification[1])
	}
}

func TestBuildManifestDepotAndAccount(t *testing.T) {
	now := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	m, err := BuildManifest(validRequest(), testCredential(), now)
	if err != nil {
		t.Fatal(err)
	}
	if m.Date != "2026-03-01" || m.Time != "14:30" || m.Confirm != "Y" {
		t.Errorf("manifest header = %s %s %s", m.Date, m.Time, m.Confirm)
	}
	if m.Depot.Code != "086" || m.Depot.Account.Code != "ACC001" {
		t.Errorf("depot/account = %s/%s", m.Depot.Code, m.Depot.Account.Code)
	}
	con := m.Depot.Account.Consignment
	if con.CollectionDate != "2026-03-02" || con.DeliveryDate != "2026-03-03" {
		t.Errorf("dates = %s/%s", con.CollectionDate, con.DeliveryDate)
	}
	if con.Service.Code != "A" || con.Service.Type != "N" {
		t.Errorf("service = %+v", con.Service)
	}
}
