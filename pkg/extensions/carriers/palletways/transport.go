package palletways

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/flaboy/aira-freight/pkg/database"
	"github.com/flaboy/aira-freight/pkg/extensions/carriers/utils"
	"github.com/flaboy/aira-freight/pkg/models"
	"github.com/valyala/fasthttp"
	"github.com/zoobzio/clockz"
)

const (
	rateLimitCalls  = 100
	rateLimitWindow = 60 * time.Second

	submitTimeout = 30 * time.Second
	binaryTimeout = 60 * time.Second

	maxAttempts   = 3
	backoffFactor = 1.5
)

// transport 出站 HTTP 层：限流、签名、重试、响应归一化。
// do 可注入替身以便不触网测试
type transport struct {
	limiter *utils.FixedWindowLimiter
	clock   clockz.Clock
	do      func(req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error
}

func newTransport() *transport {
	return &transport{
		limiter: utils.NewFixedWindowLimiter(rateLimitCalls, rateLimitWindow),
		clock:   clockz.RealClock,
		do:      fasthttp.DoTimeout,
	}
}

// apiCall 单次出站调用的全部参数
type apiCall struct {
	method      string
	endpoint    string // 相对路径，如 createConsignment
	fallback    string // 404 时换用的等价端点，仅降级一次
	params      map[string]string
	form        map[string]string
	payload     string // 参与签名的请求体
	timeout     time.Duration
	wait        bool // true=配额耗尽时阻塞等待，false=立即失败
}

// redactKey 日志里只保留密钥前缀
func redactKey(key string) string {
	if len(key) <= 10 {
		return key + "..."
	}
	return key[:10] + "..."
}

// send 执行调用：先占限流配额并把计数回写凭证，再带退避重试发送
func (t *transport) send(cred *models.CarrierCredential, call *apiCall) (Normalized, []byte, error) {
	key := cred.RateLimitKey()
	if cred.LastRequestAt != nil {
		// 进程重启后的首次调用从凭证恢复计数；窗口已在内存中时
		// 凭证快照可能过期，不覆盖
		t.limiter.Seed(key, cred.RequestCount, *cred.LastRequestAt)
	}

	if call.wait {
		t.limiter.Wait(key)
	} else if err := t.limiter.Acquire(key); err != nil {
		return Normalized{}, nil, err
	}

	count, last := t.limiter.Snapshot(key)
	cred.RequestCount = count
	cred.LastRequestAt = &last
	if database.Ready() {
		database.Database().Model(cred).Updates(map[string]any{
			"request_count":   count,
			"last_request_at": last,
		})
	}

	endpoint := call.endpoint
	usedFallback := false
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(backoffFactor, float64(attempt)) * float64(time.Second))
			<-t.clock.After(delay)
		}

		status, contentType, body, err := t.doOnce(cred, call, endpoint)
		if err != nil {
			lastErr = &utils.TransportError{Op: endpoint, Err: err}
			slog.Warn("Carrier request failed",
				"endpoint", endpoint, "attempt", attempt+1,
				"apiKey", redactKey(cred.ApiKey), "error", err)
			continue
		}

		switch {
		case status >= 200 && status < 300:
			return t.finish(contentType, body)
		case status == 404 && call.fallback != "" && !usedFallback:
			// 旧版网关未部署新端点时降级一次
			endpoint = call.fallback
			usedFallback = true
			attempt--
			continue
		case status >= 500:
			lastErr = &utils.HttpError{StatusCode: status, BodyPrefix: bodyPrefix(body)}
			slog.Warn("Carrier server error",
				"endpoint", endpoint, "status", status, "attempt", attempt+1,
				"apiKey", redactKey(cred.ApiKey))
			continue
		default:
			// 4xx 重试没有意义，原样报出
			return Normalized{}, nil, &utils.HttpError{StatusCode: status, BodyPrefix: bodyPrefix(body)}
		}
	}

	return Normalized{}, nil, lastErr
}

// finish 返回归一化结果与原始响应体，原始体用于审计留痕与 PDF 透传
func (t *transport) finish(contentType string, body []byte) (Normalized, []byte, error) {
	n, _, err := normalizeBody(contentType, body)
	if err != nil {
		return Normalized{}, nil, err
	}
	return n, body, nil
}

func (t *transport) doOnce(cred *models.CarrierCredential, call *apiCall, endpoint string) (int, string, []byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	base := strings.TrimRight(cred.Endpoint, "/")
	uri := base + "/" + endpoint

	query := url.Values{}
	query.Set("apikey", cred.ApiKey)
	query.Set("outputformat", "json")
	for k, v := range call.params {
		query.Set(k, v)
	}
	req.SetRequestURI(uri + "?" + query.Encode())
	req.Header.SetMethod(call.method)

	if len(call.form) > 0 {
		args := fasthttp.AcquireArgs()
		for k, v := range call.form {
			args.Set(k, v)
		}
		req.SetBody(args.QueryString())
		fasthttp.ReleaseArgs(args)
		req.Header.SetContentType("application/x-www-form-urlencoded")
	}

	req.Header.Set("X-API-Key", cred.ApiKey)
	req.Header.Set("X-API-Signature", signPayload(cred.ApiKey, call.payload))

	timeout := call.timeout
	if timeout == 0 {
		timeout = submitTimeout
	}

	if err := t.do(req, resp, timeout); err != nil {
		return 0, "", nil, err
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return resp.StatusCode(), string(resp.Header.ContentType()), body, nil
}

// signPayload HMAC-SHA256 请求体签名，GET 请求对空串签名
func signPayload(apiKey, payload string) string {
	mac := hmac.New(sha256.New, []byte(apiKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
