package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/config"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/shopspring/decimal"
)

// MoMo creates captureWallet payments and verifies IPN notifications with HMAC-SHA256.
type MoMo struct {
	settings config.MoMoSettings
	client   *http.Client
	now      func() time.Time
}

func NewMoMo(settings config.MoMoSettings, client *http.Client) *MoMo {
	return &MoMo{settings: settings, client: client, now: time.Now}
}

func (m *MoMo) Name() models.PaymentMethod { return models.PaymentMethodMoMo }

func (m *MoMo) sign(raw string) string {
	mac := hmac.New(sha256.New, []byte(m.settings.SecretKey))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

type momoCreateRequest struct {
	PartnerCode string `json:"partnerCode"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IpnURL      string `json:"ipnUrl"`
	RequestType string `json:"requestType"`
	ExtraData   string `json:"extraData"`
	Lang        string `json:"lang"`
	Signature   string `json:"signature"`
}

type momoCreateResponse struct {
	PartnerCode string `json:"partnerCode"`
	RequestID   string `json:"requestId"`
	OrderID     string `json:"orderId"`
	ResultCode  int    `json:"resultCode"`
	Message     string `json:"message"`
	PayURL      string `json:"payUrl"`
}

func (m *MoMo) CreatePayment(ctx context.Context, req Request) (*Redirect, error) {
	body := momoCreateRequest{
		PartnerCode: m.settings.PartnerCode,
		RequestID:   req.OrderNumber + "-" + strconv.FormatInt(m.now().UnixMilli(), 10),
		Amount:      req.Amount.Truncate(0).IntPart(),
		OrderID:     req.OrderNumber,
		OrderInfo:   req.Description,
		RedirectURL: m.settings.RedirectURL,
		IpnURL:      m.settings.IPNURL,
		RequestType: "captureWallet",
		Lang:        "vi",
	}
	raw := fmt.Sprintf("accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		m.settings.AccessKey, body.Amount, body.ExtraData, body.IpnURL, body.OrderID, body.OrderInfo,
		body.PartnerCode, body.RedirectURL, body.RequestID, body.RequestType)
	body.Signature = m.sign(raw)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.settings.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach MoMo: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("momo API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var out momoCreateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to parse MoMo response: %w", err)
	}
	if out.ResultCode != 0 {
		return nil, fmt.Errorf("momo error %d: %s", out.ResultCode, out.Message)
	}
	if out.PayURL == "" {
		return nil, fmt.Errorf("momo returned empty payment URL")
	}
	return &Redirect{URL: out.PayURL, ProviderRef: body.RequestID, Raw: string(respBody)}, nil
}

// Notification is the IPN body MoMo posts after a payment attempt.
type Notification struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

func (m *MoMo) notificationSignature(n Notification) string {
	raw := fmt.Sprintf("accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		m.settings.AccessKey, n.Amount, n.ExtraData, n.Message, n.OrderID, n.OrderInfo, n.OrderType,
		n.PartnerCode, n.PayType, n.RequestID, n.ResponseTime, n.ResultCode, n.TransID)
	return m.sign(raw)
}

// Sign fills n.Signature the way MoMo does.
func (m *MoMo) Sign(n *Notification) {
	n.Signature = m.notificationSignature(*n)
}

// VerifyCallback accepts the JSON IPN (POST) or the redirect query (GET).
func (m *MoMo) VerifyCallback(r *http.Request) (*CallbackResult, error) {
	var n Notification
	var raw string
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		n = Notification{
			PartnerCode: q.Get("partnerCode"),
			OrderID:     q.Get("orderId"),
			RequestID:   q.Get("requestId"),
			OrderInfo:   q.Get("orderInfo"),
			OrderType:   q.Get("orderType"),
			Message:     q.Get("message"),
			PayType:     q.Get("payType"),
			ExtraData:   q.Get("extraData"),
			Signature:   q.Get("signature"),
		}
		var err error
		if n.Amount, err = strconv.ParseInt(q.Get("amount"), 10, 64); err != nil {
			return nil, fmt.Errorf("invalid amount: %w", err)
		}
		n.TransID, _ = strconv.ParseInt(q.Get("transId"), 10, 64)
		n.ResultCode, _ = strconv.Atoi(q.Get("resultCode"))
		n.ResponseTime, _ = strconv.ParseInt(q.Get("responseTime"), 10, 64)
		raw = q.Encode()
	} else {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(body, &n); err != nil {
			return nil, fmt.Errorf("invalid MoMo notification: %w", err)
		}
		raw = string(body)
	}

	if n.Signature == "" || !hmac.Equal([]byte(n.Signature), []byte(m.notificationSignature(n))) {
		return nil, ErrInvalidSignature
	}

	return &CallbackResult{
		Provider:      models.PaymentMethodMoMo,
		OrderNumber:   n.OrderID,
		TransactionID: strconv.FormatInt(n.TransID, 10),
		Amount:        decimal.NewFromInt(n.Amount),
		Success:       n.ResultCode == 0,
		ResultCode:    strconv.Itoa(n.ResultCode),
		Message:       n.Message,
		Raw:           raw,
	}, nil
}
