package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/config"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/shopspring/decimal"
)

const vnpayVersion = "2.1.0"

var vnpayLocation = time.FixedZone("ICT", 7*60*60)

// VNPay signs redirect URLs with HMAC-SHA512 over the sorted, encoded query.
type VNPay struct {
	settings config.VNPaySettings
	now      func() time.Time
}

func NewVNPay(settings config.VNPaySettings) *VNPay {
	return &VNPay{settings: settings, now: time.Now}
}

func (v *VNPay) Name() models.PaymentMethod { return models.PaymentMethodVNPay }

func (v *VNPay) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(v.settings.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

func (v *VNPay) CreatePayment(_ context.Context, req Request) (*Redirect, error) {
	now := v.now().In(vnpayLocation)
	ip := req.ClientIP
	if ip == "" {
		ip = "127.0.0.1"
	}

	params := url.Values{}
	params.Set("vnp_Version", vnpayVersion)
	params.Set("vnp_Command", "pay")
	params.Set("vnp_TmnCode", v.settings.TmnCode)
	params.Set("vnp_Amount", req.Amount.Mul(decimal.NewFromInt(100)).Truncate(0).String())
	params.Set("vnp_CurrCode", "VND")
	params.Set("vnp_TxnRef", req.OrderNumber)
	params.Set("vnp_OrderInfo", req.Description)
	params.Set("vnp_OrderType", "other")
	params.Set("vnp_Locale", "vn")
	params.Set("vnp_ReturnUrl", v.settings.ReturnURL)
	params.Set("vnp_IpAddr", ip)
	params.Set("vnp_CreateDate", now.Format("20060102150405"))
	params.Set("vnp_ExpireDate", now.Add(15*time.Minute).Format("20060102150405"))

	query := params.Encode()
	paymentURL := v.settings.PayURL + "?" + query + "&vnp_SecureHash=" + v.sign(query)
	return &Redirect{URL: paymentURL, ProviderRef: req.OrderNumber}, nil
}

// VerifyCallback checks the return URL or IPN query.
func (v *VNPay) VerifyCallback(r *http.Request) (*CallbackResult, error) {
	return v.verifyQuery(r.URL.Query())
}

func (v *VNPay) verifyQuery(query url.Values) (*CallbackResult, error) {
	provided := query.Get("vnp_SecureHash")
	if provided == "" {
		return nil, ErrInvalidSignature
	}

	signed := url.Values{}
	for k, vals := range query {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" || !strings.HasPrefix(k, "vnp_") {
			continue
		}
		signed[k] = vals
	}
	expected := v.sign(signed.Encode())
	if !hmac.Equal([]byte(strings.ToLower(provided)), []byte(expected)) {
		return nil, ErrInvalidSignature
	}

	amount, err := decimal.NewFromString(query.Get("vnp_Amount"))
	if err != nil {
		return nil, fmt.Errorf("invalid vnp_Amount: %w", err)
	}

	code := query.Get("vnp_ResponseCode")
	return &CallbackResult{
		Provider:      models.PaymentMethodVNPay,
		OrderNumber:   query.Get("vnp_TxnRef"),
		TransactionID: query.Get("vnp_TransactionNo"),
		Amount:        amount.Div(decimal.NewFromInt(100)),
		Success:       code == "00" && query.Get("vnp_TransactionStatus") == "00",
		ResultCode:    code,
		Raw:           query.Encode(),
	}, nil
}

// SignQuery returns query with a valid vnp_SecureHash appended, as VNPay would send it.
func (v *VNPay) SignQuery(query url.Values) url.Values {
	signed := url.Values{}
	for k, vals := range query {
		signed[k] = vals
	}
	signed.Set("vnp_SecureHash", v.sign(query.Encode()))
	return signed
}
