package palletways

import "encoding/xml"

// Manifest 提交托运单的 XML 请求体
type Manifest struct {
	XMLName xml.Name `xml:"Manifest"`
	Date    string   `xml:"Date"`
	Time    string   `xml:"Time"`
	Confirm string   `xml:"Confirm"`
	Depot   Depot    `xml:"Depot"`
}

type Depot struct {
	Code    string  `xml:"Code"`
	Account Account `xml:"Account"`
}

type Account struct {
	Code        string      `xml:"Code"`
	Consignment Consignment `xml:"Consignment"`
}

// Consignment 单票托运单。Address 必须先送货地址后取货地址
type Consignment struct {
	Type           string            `xml:"Type,attr"`
	ImportID       string            `xml:"ImportID"`
	Number         string            `xml:"Number,omitempty"`
	Reference      string            `xml:"Reference"`
	Lifts          int               `xml:"Lifts"`
	Weight         int               `xml:"Weight"`
	Handball       string            `xml:"Handball,omitempty"`
	TailLift       string            `xml:"TailLift,omitempty"`
	Classification string            `xml:"Classification,omitempty"`
	BookInRequest  string            `xml:"BookInRequest,omitempty"`
	ManifestNote   string            `xml:"ManifestNote,omitempty"`
	CollectionDate string            `xml:"CollectionDate,omitempty"`
	DeliveryDate   string            `xml:"DeliveryDate,omitempty"`
	Service        ManifestService   `xml:"Service"`
	Address        []ManifestAddress `xml:"Address"`
	BillUnit       []BillUnit        `xml:"BillUnit"`
	BookInName     string            `xml:"BookInName,omitempty"`
	BookInPhone    string            `xml:"BookInTelephoneNumber,omitempty"`
	BookInNote     string            `xml:"BookInNote,omitempty"`
	Notification   []NotificationSet `xml:"NotificationSet,omitempty"`
}

type ManifestService struct {
	Type      string `xml:"Type,attr"`
	Code      string `xml:"Code"`
	Surcharge string `xml:"Surcharge,omitempty"`
}

type ManifestAddress struct {
	Type        string   `xml:"Type,attr"`
	ContactName string   `xml:"ContactName"`
	CompanyName string   `xml:"CompanyName,omitempty"`
	Telephone   string   `xml:"TelephoneNumber,omitempty"`
	Line        []string `xml:"Line"`
	Town        string   `xml:"Town"`
	County      string   `xml:"County,omitempty"`
	PostCode    string   `xml:"PostCode"`
	Country     string   `xml:"Country"`
}

type BillUnit struct {
	Type   string `xml:"Type"`
	Amount int    `xml:"Amount"`
}

// NotificationSet 送达通知订阅，SysGroup 1=邮件 3=短信
type NotificationSet struct {
	SysGroup  int    `xml:"SysGroup"`
	Email     string `xml:"Email,omitempty"`
	SMSNumber string `xml:"SMSNumber,omitempty"`
}
