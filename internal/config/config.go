package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"checkout.db"`

	Checkout  Checkout  `envPrefix:"CHECKOUT_"`
	Auth      Auth      `envPrefix:"AUTH_"`
	BrainTree Braintree `envPrefix:"BRAINTREE_"`
	Paylink   Paylink   `envPrefix:"PAYLINK_"`
}

// Checkout holds the page wiring and form-field switches for the checkout
// component. The original theme exposed these as per-component properties;
// here they are plain settings resolved once at startup.
type Checkout struct {
	ShowCountryField  bool `env:"SHOW_COUNTRY_FIELD" envDefault:"false"`
	ShowPostcodeField bool `env:"SHOW_POSTCODE_FIELD" envDefault:"false"`
	ShowAddress2Field bool `env:"SHOW_ADDRESS2_FIELD" envDefault:"true"`
	ShowCityField     bool `env:"SHOW_CITY_FIELD" envDefault:"true"`
	ShowStateField    bool `env:"SHOW_STATE_FIELD" envDefault:"true"`

	AgreeTermsPage string `env:"AGREE_TERMS_PAGE" envDefault:"pages/terms"`
	MenusPage      string `env:"MENUS_PAGE" envDefault:"local/menus"`
	RedirectPage   string `env:"REDIRECT_PAGE" envDefault:"checkout/checkout"`
	SuccessPage    string `env:"SUCCESS_PAGE" envDefault:"checkout/success"`
	CartBoxAlias   string `env:"CART_BOX_ALIAS" envDefault:"cartBox"`

	AllowGuest       bool `env:"ALLOW_GUEST" envDefault:"true"`
	DefaultCountryID uint `env:"DEFAULT_COUNTRY_ID" envDefault:"1"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type Braintree struct {
	Environment string `env:"ENVIRONMENT"`
	MerchantID  string `env:"MERCHANT_ID"`
	PublicKey   string `env:"PUBLIC_KEY"`
	PrivateKey  string `env:"PRIVATE_KEY"`
}

type Paylink struct {
	BaseApiURL string `env:"BASE_API_URL"`
	APIKey     string `env:"API_KEY"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
