package palletways

import (
	"fmt"

	"github.com/flaboy/aira-freight/pkg/extensions/carriers/utils"
)

// unwrapResponse 兼容带 Response 外层容器与不带容器两种形态
func unwrapResponse(n Normalized) Normalized {
	if inner := n.Get("Response"); !inner.IsEmpty() {
		return inner
	}
	return n
}

// responseStatus Status 节点可能是标量、对象或列表，统一取出状态码与描述
func responseStatus(body Normalized) (code, description string, status Normalized) {
	status = body.Get("Status").FirstOrSelf()
	if status.IsEmpty() {
		return "", "", status
	}
	if code = status.Get("Code").String(); code == "" {
		// 标量形态：Status 本身就是状态码
		code = status.String()
	}
	description = status.Get("Description").String()
	return code, description, status
}

// flattenValidationErrors 把承运商返回的逐票错误摊平成一维列表
func flattenValidationErrors(status Normalized) []string {
	var details []string
	for _, con := range status.Get("Consignment").List() {
		prefix := ""
		if id := con.Get("ImportID").String(); id != "" {
			prefix = id + ": "
		} else if idx := con.Get("Index").String(); idx != "" {
			prefix = "consignment " + idx + ": "
		}
		for _, e := range con.Get("Error").List() {
			desc := e.Get("Description").String()
			if desc == "" {
				desc = e.String()
			}
			if code := e.Get("Code").String(); code != "" {
				desc = fmt.Sprintf("[%s] %s", code, desc)
			}
			if desc != "" {
				details = append(details, prefix+desc)
			}
		}
	}
	for _, e := range status.Get("Account").Get("Error").List() {
		desc := e.Get("Description").String()
		if desc == "" {
			desc = e.String()
		}
		if desc != "" {
			details = append(details, desc)
		}
	}
	return details
}

// interpretSubmission 解析创建托运单的响应。
// 测试模式下承运商不回传跟踪号，本地合成 TEST-<reference> 占位
func interpretSubmission(n Normalized, reference string, testMode bool, raw string) (*utils.SubmissionResult, error) {
	body := unwrapResponse(n)

	code, description, status := responseStatus(body)
	if code != "" && code != "OK" {
		if description == "" {
			description = "consignment rejected by carrier"
		}
		return nil, &utils.CarrierError{
			Description: description,
			Details:     flattenValidationErrors(status),
		}
	}

	detail := body.Get("Detail").FirstOrSelf()
	importDetail := detail.Get("ImportDetail").FirstOrSelf()
	if importDetail.IsEmpty() {
		importDetail = detail.Get("Data").FirstOrSelf()
	}
	if importDetail.IsEmpty() {
		importDetail = detail
	}

	result := &utils.SubmissionResult{
		TrackingID:        importDetail.Get("TrackingID").String(),
		ResponseID:        importDetail.Get("ResponseID").String(),
		ConsignmentNumber: importDetail.Get("ConNo").String(),
		RawResponse:       raw,
	}
	if result.ConsignmentNumber == "" {
		result.ConsignmentNumber = importDetail.Get("ConsignmentNumber").String()
	}

	if result.TrackingID == "" && result.ResponseID != "" {
		// 网关偶尔只回 ResponseID，用它合成可追踪的占位号
		result.TrackingID = "PW-" + result.ResponseID
	}
	if result.TrackingID == "" {
		if testMode {
			result.TrackingID = "TEST-" + reference
			result.Synthetic = true
		} else {
			return nil, &utils.CarrierError{
				Description: "carrier accepted consignment but returned no tracking identifier",
			}
		}
	}
	return result, nil
}

// interpretStatus 解析状态查询响应
func interpretStatus(n Normalized, raw string) (*utils.StatusResult, error) {
	body := unwrapResponse(n)

	detail := body.Get("Detail").FirstOrSelf()
	if detail.IsEmpty() {
		detail = body.Get("Data").FirstOrSelf()
	}
	if detail.IsEmpty() {
		detail = body
	}

	con := detail.Get("Consignment").FirstOrSelf()
	if con.IsEmpty() {
		con = detail
	}

	statusCode := con.Get("Status").FirstOrSelf().Get("Code").String()
	statusDesc := con.Get("Status").FirstOrSelf().Get("Description").String()
	if statusCode == "" {
		statusCode = con.Get("StatusCode").String()
	}
	if statusDesc == "" {
		statusDesc = con.Get("StatusDescription").String()
	}
	if statusCode == "" {
		return nil, &utils.CarrierError{Description: "status response contains no status code"}
	}

	return &utils.StatusResult{
		StatusCode:        statusCode,
		StatusDescription: statusDesc,
		ConsignmentNumber: con.Get("ConNo").String(),
		DeliveryDate:      con.Get("DeliveryDate").String(),
		DeliveryTime:      con.Get("DeliveryTime").String(),
		RawResponse:       raw,
	}, nil
}

// interpretServices 解析可用服务目录，网关既可能直接回列表也可能套容器
func interpretServices(n Normalized) ([]utils.ServiceOption, error) {
	body := unwrapResponse(n)

	services := body.Get("Service")
	if services.IsEmpty() {
		services = body.Get("Detail").FirstOrSelf().Get("Service")
	}
	if services.IsEmpty() {
		services = body.Get("Data").FirstOrSelf().Get("Service")
	}
	if services.IsEmpty() {
		return nil, &utils.CarrierError{Description: "no services available for this route"}
	}

	var options []utils.ServiceOption
	for _, svc := range services.List() {
		options = append(options, utils.ServiceOption{
			GroupCode: svc.Get("GroupCode").String(),
			Code:      svc.Get("Code").String(),
			Name:      svc.Get("Name").String(),
			GroupName: svc.Get("GroupName").String(),
			DaysMin:   svc.Get("DaysMin").String(),
			DaysMax:   svc.Get("DaysMax").String(),
		})
	}
	return options, nil
}

// interpretNotes 解析跟踪备注列表
func interpretNotes(n Normalized) ([]utils.ConsignmentNote, error) {
	body := unwrapResponse(n)

	notes := body.Get("Note")
	if notes.IsEmpty() {
		notes = body.Get("Detail").FirstOrSelf().Get("Note")
	}
	if notes.IsEmpty() {
		notes = body.Get("Data").FirstOrSelf().Get("Note")
	}

	var out []utils.ConsignmentNote
	for _, note := range notes.List() {
		text := note.Get("Text").String()
		if text == "" {
			text = note.Get("Note").String()
		}
		if text == "" {
			text = note.String()
		}
		if text == "" {
			continue
		}
		out = append(out, utils.ConsignmentNote{
			Date: note.Get("Date").String(),
			Time: note.Get("Time").String(),
			Text: text,
		})
	}
	return out, nil
}
