package options

import (
	"os"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"gpurouter/pkg/chat"
	"gpurouter/pkg/known"
	"gpurouter/pkg/models"
	"gpurouter/pkg/offering"
)

// GlobalOptions flags shared by every command.
type GlobalOptions struct {
	Output      string
	ConfigFile  string
	LogLevel    string
	CatalogFile string
}

func NewGlobalOptions() *GlobalOptions {
	return &GlobalOptions{Output: known.TableOutput, LogLevel: "info"}
}

func (o *GlobalOptions) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&o.Output, "output", "o", o.Output, "output format table|json|yaml")
	flags.StringVar(&o.ConfigFile, "config", "", "config file (yaml, json or toml)")
	flags.StringVar(&o.LogLevel, "log-level", o.LogLevel, "log level debug|info|warn|error")
	flags.StringVar(&o.CatalogFile, "catalog", "", "catalog yaml to use instead of the embedded one")
}

// ParseLogLevel maps a level name to its hlog level.
func ParseLogLevel(level string) (hlog.Level, error) {
	switch strings.ToLower(level) {
	case "trace":
		return hlog.LevelTrace, nil
	case "debug":
		return hlog.LevelDebug, nil
	case "", "info":
		return hlog.LevelInfo, nil
	case "notice":
		return hlog.LevelNotice, nil
	case "warn", "warning":
		return hlog.LevelWarn, nil
	case "error":
		return hlog.LevelError, nil
	case "fatal":
		return hlog.LevelFatal, nil
	default:
		return hlog.LevelInfo, errors.Errorf("invalid log level %q", level)
	}
}

// CatalogOptions filters and orders offering and GPU listings.
type CatalogOptions struct {
	Vendor    string
	MinVRAM   int
	PriceType string
	MaxPrice  float64
	Sort      string
	Order     string
}

func NewCatalogOptions() *CatalogOptions {
	return &CatalogOptions{}
}

func (o *CatalogOptions) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&o.Vendor, "vendor", "v", "", "filter: GPU vendor (NVIDIA, AMD)")
	flags.IntVarP(&o.MinVRAM, "min-vram", "m", 0, "filter: minimal VRAM GB")
	flags.StringVar(&o.PriceType, "price-type", "", "filter: on-demand|spot|reserved-1yr|reserved-3yr")
	flags.Float64Var(&o.MaxPrice, "max-price", 0, "filter: maximal USD/hour")
	flags.StringVarP(&o.Sort, "sort", "s", offering.ByPrice, "sort results by "+strings.Join(offering.SortKeys, "|"))
	flags.StringVar(&o.Order, "order", "", "sort order asc|desc (default depends on --sort)")
}

// Filter returns the offering filter described by the options.
func (o *CatalogOptions) Filter() (offering.Filter, error) {
	f := offering.Filter{
		Vendor:    models.Vendor(o.Vendor),
		MinVRAM:   o.MinVRAM,
		PriceType: models.PriceType(o.PriceType),
		MaxPrice:  o.MaxPrice,
	}
	if f.PriceType != "" && !f.PriceType.Valid() {
		return f, errors.Errorf("invalid price type %q", o.PriceType)
	}
	if o.MinVRAM < 0 || o.MaxPrice < 0 {
		return f, errors.New("filters must not be negative")
	}
	return f, nil
}

// SortOrder validates --sort and --order.
func (o *CatalogOptions) SortOrder() (string, bool, error) {
	return offering.ParseSort(o.Sort, o.Order)
}

// ProviderOptions filters the provider list.
type ProviderOptions struct {
	Type string
}

func NewProviderOptions() *ProviderOptions {
	return &ProviderOptions{}
}

func (o *ProviderOptions) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&o.Type, "type", "t", "", "filter: hyperscaler|specialized|marketplace|emerging")
}

func (o *ProviderOptions) Validate() error {
	if o.Type != "" && !models.ProviderType(o.Type).Valid() {
		return errors.Errorf("invalid provider type %q", o.Type)
	}
	return nil
}

// TopOptions ranking size and criterion.
type TopOptions struct {
	Limit int
	By    string
}

func NewTopOptions() *TopOptions {
	return &TopOptions{Limit: known.DefaultRankingLimit, By: known.ValueMode}
}

func (o *TopOptions) AddFlags(flags *pflag.FlagSet) {
	flags.IntVarP(&o.Limit, "limit", "n", o.Limit, "number of offerings to show")
	flags.StringVar(&o.By, "by", o.By, "rank by value|performance")
}

func (o *TopOptions) Validate() error {
	if o.Limit < 1 {
		return errors.Errorf("invalid limit %d, must be positive", o.Limit)
	}
	if o.By != known.ValueMode && o.By != known.PerformanceMode {
		return errors.Errorf("invalid ranking %q, must be value|performance", o.By)
	}
	return nil
}

// CostOptions duration of a cost estimate.
type CostOptions struct {
	Hours float64
}

func NewCostOptions() *CostOptions {
	return &CostOptions{Hours: 1}
}

func (o *CostOptions) AddFlags(flags *pflag.FlagSet) {
	flags.Float64Var(&o.Hours, "hours", o.Hours, "rental duration in hours")
}

func (o *CostOptions) Validate() error {
	if o.Hours <= 0 {
		return errors.Errorf("invalid duration %v, must be positive", o.Hours)
	}
	return nil
}

// ServeOptions HTTP server and completion endpoint settings.
type ServeOptions struct {
	Addr        string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

func NewServeOptions() *ServeOptions {
	d := chat.DefaultConfig()
	return &ServeOptions{
		Addr:        ":8080",
		BaseURL:     d.BaseURL,
		Model:       d.Model,
		Temperature: d.Temperature,
		MaxTokens:   d.MaxTokens,
		Timeout:     d.Timeout,
	}
}

func (o *ServeOptions) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.Addr, "addr", o.Addr, "listen address")
	flags.StringVar(&o.BaseURL, "base-url", o.BaseURL, "completion API base url")
	flags.StringVar(&o.Model, "model", o.Model, "completion model")
	flags.Float64Var(&o.Temperature, "temperature", o.Temperature, "sampling temperature")
	flags.IntVar(&o.MaxTokens, "max-tokens", o.MaxTokens, "completion token limit")
	flags.DurationVar(&o.Timeout, "timeout", o.Timeout, "completion request timeout")
}

// ChatConfig builds the completion client config, reading the API key from
// the environment.
func (o *ServeOptions) ChatConfig() (chat.Config, error) {
	key, ok := os.LookupEnv(known.APIKeyEnv)
	if !ok || key == "" {
		return chat.Config{}, errors.Errorf("env: %s not exist", known.APIKeyEnv)
	}
	return chat.Config{
		BaseURL:     o.BaseURL,
		APIKey:      key,
		Model:       o.Model,
		Temperature: o.Temperature,
		MaxTokens:   o.MaxTokens,
		Timeout:     o.Timeout,
	}, nil
}
