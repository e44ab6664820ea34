package config

// ClassifierConfig represents the configuration for the classification cascade
type ClassifierConfig struct {
	Threshold             float64
	RelaxedThreshold      float64
	CategoryThresholds    map[string]float64
	RequireHighConfidence bool
	TwoFactor             bool
	SubdomainDetector     bool
	LogicalClassifier     bool
	Ensemble              bool
}

// EnsembleConfig represents the configuration for the statistical ensemble
type EnsembleConfig struct {
	Weights             map[string]float64
	HighLevel           float64
	MediumLevel         float64
	MarketingCategories []string
}

// OpenAIConfig represents the configuration for the OpenAI scoring model
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// ServerConfig represents the configuration for the SMTP filter surface
type ServerConfig struct {
	FilterType       string
	ListenAddress    string
	BlockSpam        bool
	CategoryHeader   string
	ConfidenceHeader string
	ReasonHeader     string
	ActionHeader     string
	RelayAddress     string
	RelayPort        int
	RelayEnabled     bool
	SubjectPrefix    string
	ModifySubject    bool
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		Threshold:             c.GetFloat64("classifier.threshold"),
		RelaxedThreshold:      c.GetFloat64("classifier.relaxed_threshold"),
		CategoryThresholds:    c.GetStringMapFloat64("classifier.thresholds"),
		RequireHighConfidence: c.GetBool("classifier.require_high_confidence"),
		TwoFactor:             c.GetBool("classifier.capabilities.two_factor"),
		SubdomainDetector:     c.GetBool("classifier.capabilities.subdomain_detector"),
		LogicalClassifier:     c.GetBool("classifier.capabilities.logical_classifier"),
		Ensemble:              c.GetBool("classifier.capabilities.ensemble"),
	}
}

// GetEnsemble returns the ensemble configuration
func (c *Config) GetEnsemble() EnsembleConfig {
	return EnsembleConfig{
		Weights:             c.GetStringMapFloat64("ensemble.weights"),
		HighLevel:           c.GetFloat64("ensemble.levels.high"),
		MediumLevel:         c.GetFloat64("ensemble.levels.medium"),
		MarketingCategories: c.GetStringSlice("ensemble.marketing_categories"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetServer returns the server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		FilterType:       c.GetString("server.filter_type"),
		ListenAddress:    c.GetString("server.listen_address"),
		BlockSpam:        c.GetBool("server.block_spam"),
		CategoryHeader:   c.GetString("server.headers.category"),
		ConfidenceHeader: c.GetString("server.headers.confidence"),
		ReasonHeader:     c.GetString("server.headers.reason"),
		ActionHeader:     c.GetString("server.headers.action"),
		RelayAddress:     c.GetString("server.relay.address"),
		RelayPort:        c.GetInt("server.relay.port"),
		RelayEnabled:     c.GetBool("server.relay.enabled"),
		SubjectPrefix:    c.GetString("server.subject_prefix"),
		ModifySubject:    c.GetBool("server.modify_subject"),
	}
}
