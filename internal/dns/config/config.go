package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/haukened/fixed-dns/internal/dns/domain"
	"github.com/haukened/fixed-dns/internal/dns/repos/profile"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Listen is the IP address the responder binds to.
	Listen string `koanf:"listen" validate:"required,ip"`

	// Port is the UDP port the responder binds to. 0 picks a free port.
	Port int `koanf:"port" validate:"gte=0,lte=65535"`

	// Profile is an optional YAML, JSON or TOML file overriding any part
	// of the response. Keys it omits fall back to the answer settings below.
	Profile string `koanf:"profile"`

	// AnswerName is used both for the echoed question and the answer record.
	AnswerName string `koanf:"answer_name" validate:"required,dns_name"`

	// AnswerAddress is the IPv4 address returned in the A record.
	AnswerAddress string `koanf:"answer_address" validate:"required,ipv4"`

	AnswerTTL uint32 `koanf:"answer_ttl"`

	// DefaultID is the transaction id used when a request is too short to carry one.
	DefaultID uint16 `koanf:"default_id"`
}

// DEFAULT_APP_CONFIG defines the default application configuration settings for
// the responder: a loopback bind on port 2053 answering codecrafters.io with 8.8.8.8.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:           "prod",
	LogLevel:      "info",
	Listen:        "127.0.0.1",
	Port:          2053,
	AnswerName:    domain.DefaultName,
	AnswerAddress: domain.DefaultAddress,
	AnswerTTL:     domain.DefaultTTL,
	DefaultID:     domain.DefaultID,
}

// validDNSName reports whether the field holds a domain name that can be
// encoded on the wire: no empty labels, labels of at most 63 bytes, at most
// 255 bytes in total, ASCII only.
func validDNSName(fl validator.FieldLevel) bool {
	n, err := domain.ParseDomainName(fl.Field().String())
	if err != nil {
		return false
	}
	return n.Validate() == nil
}

// envLoader is a function that loads environment variables with the prefix "DNS_".
// It transforms the keys to lowercase and removes the prefix,
// and can be mocked in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "DNS_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "DNS_"))
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader loads default configuration values into the provided Koanf instance
// using the structs provider and the DEFAULT_APP_CONFIG struct.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation registers the custom "dns_name" tag with the provided validator.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("dns_name", validDNSName)
}

// profileLoader reads a profile file on top of a base response; swapped in tests.
var profileLoader = profile.Load

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	err := defaultLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	err = envLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	err = registerValidation(validate)
	if err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	err = validate.Struct(&cfg)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

// ListenAddr returns the host:port the transport should bind.
func (c *AppConfig) ListenAddr() string {
	return net.JoinHostPort(c.Listen, strconv.Itoa(c.Port))
}

// ResponseConfig builds the reply served to every request. The answer
// settings produce a response with one question and one A record for
// AnswerName; a Profile, when set, is layered on top of that.
func (c *AppConfig) ResponseConfig() (domain.ResponseConfig, error) {
	q, err := domain.NewQuestion(c.AnswerName, domain.RRTypeA, domain.RRClassIN)
	if err != nil {
		return domain.ResponseConfig{}, err
	}
	a, err := domain.NewARecord(c.AnswerName, domain.RRClassIN, c.AnswerTTL, c.AnswerAddress)
	if err != nil {
		return domain.ResponseConfig{}, err
	}
	base, err := domain.NewResponseConfig(domain.Header{
		ID:      c.DefaultID,
		QR:      true,
		QDCount: 1,
		ANCount: 1,
	}, q, a)
	if err != nil {
		return domain.ResponseConfig{}, err
	}

	if c.Profile == "" {
		return base, nil
	}
	cfg, err := profileLoader(c.Profile, base)
	if err != nil {
		return domain.ResponseConfig{}, fmt.Errorf("error loading profile: %w", err)
	}
	return cfg, nil
}
