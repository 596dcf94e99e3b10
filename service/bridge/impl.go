package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/base/log"
	"github.com/dropstation/marketapi/domain"
)

const (
	apikeyHeader = "x-api-key"
)

type client struct {
	client   http.Client
	timeout  time.Duration
	endpoint string
	apikey   string
}

func NewClient(cfg *ClientCfg) Client {
	return &client{
		client:   cfg.HttpClient,
		timeout:  cfg.Timeout,
		endpoint: cfg.Endpoint,
		apikey:   cfg.Apikey,
	}
}

func (c *client) TransferPayout(ctx bCtx.Ctx, req *TransferPayoutReq) *TransferOutcome {
	url := fmt.Sprintf("%s/nft/%s/transfer-payout", c.endpoint, req.Contract.ToLower())
	body, err := c.post(ctx, url, req)
	if err != nil {
		ctx.WithFields(log.Fields{
			"contract": req.Contract,
			"tokenId":  req.TokenId,
			"err":      err,
		}).Warn("transfer payout call failed")
		return &TransferOutcome{Success: false}
	}
	return &TransferOutcome{Success: true, Payload: body}
}

func (c *client) Transfer(ctx bCtx.Ctx, to domain.Address, amount string) error {
	url := fmt.Sprintf("%s/transfer", c.endpoint)
	payload := map[string]string{
		"receiverId": to.ToLowerStr(),
		"amount":     amount,
	}
	if _, err := c.post(ctx, url, payload); err != nil {
		ctx.WithFields(log.Fields{
			"to":     to,
			"amount": amount,
			"err":    err,
		}).Error("transfer call failed")
		return err
	}
	return nil
}

func (c *client) post(ctx bCtx.Ctx, url string, payload interface{}) ([]byte, error) {
	ctx, cancel := bCtx.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("NewRequestWithContext failed")
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apikeyHeader, c.apikey)

	resp, err := c.client.Do(req)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("client.Do failed")
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		ctx.WithFields(log.Fields{
			"url":        url,
			"statusCode": resp.StatusCode,
		}).Error("resp.StatusCode != 200")
		return nil, ErrStatusCodeNotOk
	}
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("failed to read body")
		return nil, err
	}
	return body, nil
}
