// File: pkg/types/config.go
// ============================================
package types

import (
	"bytes"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the closed-form configuration record for the core. Every
// recognized option of the specification's configuration section is an
// explicit field; unknown YAML keys are rejected at load time (see Load).
type Config struct {
	Binance  BinanceConfig  `yaml:"binance"`
	Telegram TelegramConfig `yaml:"telegram"`

	Timeframes []Timeframe `yaml:"timeframes"`

	Numerics   NumericsConfig   `yaml:"numerics"`
	Structure  StructureConfig  `yaml:"structure"`
	OrderFlow  OrderFlowConfig  `yaml:"order_flow"`
	Signal     SignalConfig     `yaml:"signal"`
	Risk       RiskConfig       `yaml:"risk"`
	HistData   HistDataConfig   `yaml:"hist_data"`
}

// HistDataConfig configures the backtest CSV loader.
type HistDataConfig struct {
	GapRepairMaxPerc float64 `yaml:"gap_repair_max_perc"`
}

type BinanceConfig struct {
	APIKey    string `yaml:"api_key"`
	SecretKey string `yaml:"secret_key"`
	Testnet   bool   `yaml:"testnet"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
	Enabled  bool   `yaml:"enabled"`
}

// NumericsConfig configures the C1 kernel (ATR, Hurst, GARCH, ADF/KPSS,
// FFT cycles, JSD/flow-divergence, histogram binning).
type NumericsConfig struct {
	ATRPeriod int `yaml:"atr_period"`

	HurstWindow int     `yaml:"hurst_window"`
	HurstUp     float64 `yaml:"hurst_up"`
	HurstDown   float64 `yaml:"hurst_down"`

	GARCHP               int     `yaml:"garch_p"`
	GARCHQ               int     `yaml:"garch_q"`
	GARCHRetrainInterval int     `yaml:"garch_retrain_interval"` // seconds
	GARCHMinData         int     `yaml:"garch_min_data"`
	GARCHVolModel        string  `yaml:"garch_vol_model"`
	GARCHDist            string  `yaml:"garch_dist"`

	StationarityPValue    float64 `yaml:"stationarity_p_value"`
	StationarityMinPoints int     `yaml:"stationarity_min_points"`

	FFTDominantCycleThreshold float64 `yaml:"fft_dominant_cycle_threshold"`

	FlowDivergenceWindow         int     `yaml:"flow_divergence_window"`
	FlowDivergenceBaselineWindow int     `yaml:"flow_divergence_baseline_window"`
	FlowDivergenceBins           int     `yaml:"flow_divergence_bins"`
	FlowDivergenceThreshold      float64 `yaml:"flow_divergence_threshold"`
}

// StructureConfig configures the C3 market structure analyzer.
type StructureConfig struct {
	AlligatorJawPeriod   int `yaml:"alligator_jaw_period"`
	AlligatorTeethPeriod int `yaml:"alligator_teeth_period"`
	AlligatorLipsPeriod  int `yaml:"alligator_lips_period"`
	AlligatorJawShift    int `yaml:"alligator_jaw_shift"`
	AlligatorTeethShift  int `yaml:"alligator_teeth_shift"`
	AlligatorLipsShift   int `yaml:"alligator_lips_shift"`

	SDPivotProminenceATRFactor  float64 `yaml:"sd_pivot_prominence_atr_factor"`
	SDZoneClusterEpsATRFactor   float64 `yaml:"sd_zone_cluster_eps_atr_factor"`
	SDZoneInvalidationATRFactor float64 `yaml:"sd_zone_invalidation_atr_factor"`

	WyckoffVolSpikeFactor     float64 `yaml:"wyckoff_vol_spike_factor"`
	WyckoffPhaseConfThreshold float64 `yaml:"wyckoff_phase_conf_threshold"`

	StructureWeights map[string]float64 `yaml:"structure_weights"`
}

// OrderFlowConfig configures the C4 order flow analyzer.
type OrderFlowConfig struct {
	VSAVolumeAvgPeriod int     `yaml:"vsa_volume_avg_period"`
	VSAVolFactorHigh   float64 `yaml:"vsa_vol_factor_high"`
	VSAVolFactorLow    float64 `yaml:"vsa_vol_factor_low"`
	VSASpreadFactor    float64 `yaml:"vsa_spread_factor"`

	AbsorptionRatio float64 `yaml:"absorption_ratio"`

	ThresholdUpdateInterval int     `yaml:"threshold_update_interval"` // seconds
	BayesUpdateBlendFactor  float64 `yaml:"bayes_update_blend_factor"`
	BayesObservationCap     int     `yaml:"bayes_observation_cap"`
	VolatilityMultiplier    float64 `yaml:"volatility_multiplier"`

	MeanReversionRate float64 `yaml:"mean_reversion_rate"`

	FlowWeights map[string]float64 `yaml:"flow_weights"`
}

// SignalConfig configures the C5 composer.
type SignalConfig struct {
	DecisionMode string `yaml:"decision_mode"` // rule | predictor | graph

	StructureWeight float64 `yaml:"structure_weight"`
	FlowWeight      float64 `yaml:"flow_weight"`

	BuyThreshold         float64 `yaml:"buy_threshold"`
	SellThreshold        float64 `yaml:"sell_threshold"`
	MLProbabilityThreshold float64 `yaml:"ml_probability_threshold"`

	SLBufferATR         float64 `yaml:"sl_buffer_atr"`
	ATRMultipleForSL     float64 `yaml:"atr_multiple_for_sl"`
	ATRMultipleForTP     float64 `yaml:"atr_multiple_for_tp"`
	RiskRewardRatio      float64 `yaml:"risk_reward_ratio"`

	VolatileRegimeThresholdBump float64 `yaml:"volatile_regime_threshold_bump"`
}

// RiskConfig configures the C6 evaluator.
type RiskConfig struct {
	MaxDrawdown            float64 `yaml:"max_drawdown"`
	MaxDailyLoss            float64 `yaml:"max_daily_loss"`
	MaxDailyProfit          float64 `yaml:"max_daily_profit"`
	RiskPerTrade            float64 `yaml:"risk_per_trade"`
	MaxTradesPerDay         int     `yaml:"max_trades_per_day"`
	MaxConsecutiveLosses    int     `yaml:"max_consecutive_losses"`
	MaxPositionSize         float64 `yaml:"max_position_size"`
	MaxCorrelationExposure  float64 `yaml:"max_correlation_exposure"`

	VaRConfidenceLevel   float64 `yaml:"var_confidence_level"`
	MaxPortfolioVarRatio float64 `yaml:"max_portfolio_var_ratio"`
	VaREnabled           bool    `yaml:"var_enabled"`

	UseKellySizing     bool    `yaml:"use_kelly_sizing"`
	KellyFraction      float64 `yaml:"kelly_fraction"`
	MinTradesForKelly  int     `yaml:"min_trades_for_kelly"`

	VolumeStep    float64 `yaml:"volume_step"`
	MinVolume     float64 `yaml:"min_volume"`
	PipValue      float64 `yaml:"pip_value"`

	TradeCooldownMinutes    float64 `yaml:"trade_cooldown_minutes"`
	LossCooldownMultiplier  float64 `yaml:"loss_cooldown_multiplier"`

	DynamicRiskEnabled bool `yaml:"dynamic_risk_enabled"`
}

// Default returns the specification's defaults (threshold/window values
// named throughout the specification), with an empty Binance/Telegram
// section left for the operator to fill in.
func Default() Config {
	return Config{
		Timeframes: []Timeframe{TF5Min, TF15Min, TF1Hour, TF4Hour},
		Numerics: NumericsConfig{
			ATRPeriod:                    14,
			HurstWindow:                  100,
			HurstUp:                      0.55,
			HurstDown:                    0.45,
			GARCHP:                       1,
			GARCHQ:                       1,
			GARCHRetrainInterval:         86400,
			GARCHMinData:                 252,
			GARCHVolModel:                "GARCH",
			GARCHDist:                    "Normal",
			StationarityPValue:           0.05,
			StationarityMinPoints:        20,
			FFTDominantCycleThreshold:    0.1,
			FlowDivergenceWindow:         50,
			FlowDivergenceBaselineWindow: 200,
			FlowDivergenceBins:           10,
			FlowDivergenceThreshold:      0.1,
		},
		Structure: StructureConfig{
			AlligatorJawPeriod:          13,
			AlligatorTeethPeriod:        8,
			AlligatorLipsPeriod:         5,
			AlligatorJawShift:           8,
			AlligatorTeethShift:         5,
			AlligatorLipsShift:          3,
			SDPivotProminenceATRFactor:  0.5,
			SDZoneClusterEpsATRFactor:   0.3,
			SDZoneInvalidationATRFactor: 1.0,
			WyckoffVolSpikeFactor:       1.5,
			WyckoffPhaseConfThreshold:   7.0,
			StructureWeights: map[string]float64{
				"trend": 4, "wyckoff": 3, "cycle": 2, "zones": 1,
			},
		},
		OrderFlow: OrderFlowConfig{
			VSAVolumeAvgPeriod:      20,
			VSAVolFactorHigh:        2.0,
			VSAVolFactorLow:         0.5,
			VSASpreadFactor:         1.5,
			AbsorptionRatio:         1.5,
			ThresholdUpdateInterval: 3600,
			BayesUpdateBlendFactor:  0.8,
			BayesObservationCap:     100,
			VolatilityMultiplier:    1.0,
			MeanReversionRate:       0.1,
			FlowWeights: map[string]float64{
				"delta": 3, "bid_ask": 2, "absorption": 2, "institutional": 2, "vsa": 1,
			},
		},
		Signal: SignalConfig{
			DecisionMode:                "rule",
			StructureWeight:             0.6,
			FlowWeight:                  0.4,
			BuyThreshold:                7.0,
			SellThreshold:               7.0,
			MLProbabilityThreshold:      0.65,
			SLBufferATR:                 0.2,
			ATRMultipleForSL:            2.0,
			ATRMultipleForTP:            3.0,
			RiskRewardRatio:             1.5,
			VolatileRegimeThresholdBump: 1.0,
		},
		Risk: RiskConfig{
			MaxDrawdown:            0.04,
			MaxDailyLoss:           0.0,
			MaxDailyProfit:         0.0,
			RiskPerTrade:           0.01,
			MaxTradesPerDay:        10,
			MaxConsecutiveLosses:   5,
			MaxPositionSize:        1.0,
			MaxCorrelationExposure: 0.5,
			VaRConfidenceLevel:     0.99,
			MaxPortfolioVarRatio:   0.1,
			VaREnabled:             false,
			UseKellySizing:         false,
			KellyFraction:          0.25,
			MinTradesForKelly:      50,
			VolumeStep:             0.001,
			MinVolume:              0.001,
			PipValue:               1.0,
			TradeCooldownMinutes:   15,
			LossCooldownMultiplier: 2.0,
			DynamicRiskEnabled:     true,
		},
		HistData: HistDataConfig{
			GapRepairMaxPerc: 0.5,
		},
	}
}

// Load reads a YAML config file, rejecting unknown keys, then applies
// BINANCE_API_KEY / BINANCE_SECRET_KEY / BINANCE_TESTNET /
// TELEGRAM_BOT_TOKEN / TELEGRAM_CHAT_ID environment overrides, matching
// the teacher's cmd/bot/main.go pattern.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// No .env file is not fatal; the teacher treats this as a warning.
		_ = err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		cfg.Binance.APIKey = v
	}
	if v := os.Getenv("BINANCE_SECRET_KEY"); v != "" {
		cfg.Binance.SecretKey = v
	}
	if v := os.Getenv("BINANCE_TESTNET"); v == "false" {
		cfg.Binance.Testnet = false
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configuration-level errors at init (exit code 1 per
// the CLI's contract).
func (c *Config) Validate() error {
	if len(c.Timeframes) == 0 {
		return fmt.Errorf("config: at least one timeframe is required")
	}
	for _, tf := range c.Timeframes {
		switch tf {
		case TF1Min, TF5Min, TF15Min, TF30Min, TF1Hour, TF4Hour, TFDaily:
		default:
			return fmt.Errorf("config: unrecognized timeframe %q", tf)
		}
	}
	if c.Signal.StructureWeight+c.Signal.FlowWeight <= 0 {
		return fmt.Errorf("config: structure_weight + flow_weight must be positive")
	}
	if c.Risk.MaxDrawdown <= 0 || c.Risk.MaxDrawdown >= 1 {
		return fmt.Errorf("config: max_drawdown must be in (0,1)")
	}
	if c.Risk.VolumeStep <= 0 {
		return fmt.Errorf("config: volume_step must be positive")
	}
	return nil
}
