// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"net/url"
	"time"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// Option tweaks the provider detection of an adapter.
type Option func(*DetectOptions)

// WithDetectPolling sets how often and how long an adapter looks for a
// provider that was not injected yet.
func WithDetectPolling(retries int, interval time.Duration) Option {
	return func(o *DetectOptions) {
		o.Retries = retries
		o.Interval = interval
	}
}

// WithMobile forces the mobile deep link fallback on or off.
func WithMobile(mobile bool) Option {
	return func(o *DetectOptions) { o.Mobile = mobile }
}

// NewDetectOptions assembles the detection options of a vendor adapter. The
// adapter counts as mobile if the config says so or the locator reports a
// mobile user agent. The deep link is deepLinkBase followed by the escaped
// webview URL and is only set when the config names one.
func NewDetectOptions(l Locator, cfg wallet.Config, names []string, deepLinkBase string, opts ...Option) DetectOptions {
	o := DetectOptions{
		Locator: l,
		Names:   names,
		Mobile:  cfg.IsMobile,
	}
	if m, ok := l.(interface{ Mobile() bool }); ok && m.Mobile() {
		o.Mobile = true
	}
	if cfg.MobileWebviewURL != "" && deepLinkBase != "" {
		o.DeepLink = deepLinkBase + url.QueryEscape(cfg.MobileWebviewURL)
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
