package controllers

import (
	"time"

	"github.com/storynest-vn/storynest/config"
	"github.com/storynest-vn/storynest/gateway"
	"github.com/storynest-vn/storynest/utils"
)

var (
	appCfg     *config.Config
	momoClient *gateway.Client
)

// Init wires the loaded configuration and the gateway client into the
// controllers. Must be called once at startup before routes are served.
func Init(cfg *config.Config) {
	appCfg = cfg
	momoClient = gateway.NewClient(gateway.Config{
		PartnerCode: cfg.Momo.PartnerCode,
		AccessKey:   cfg.Momo.AccessKey,
		SecretKey:   cfg.Momo.SecretKey,
		Endpoint:    cfg.Momo.Endpoint,
		RedirectURL: cfg.Momo.BaseURL + "/v1/payment/momo-return",
		IPNURL:      cfg.Momo.BaseURL + "/v1/payment/momo-ipn",
	}, utils.GatewayTimeoutSeconds*time.Second)
}
