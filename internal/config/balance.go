package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Balance carries every tuning constant of the simulation. Defaults reproduce the
// shipped game; a YAML file may override any subset.
type Balance struct {
	Company CompanyBalance `yaml:"company"`
	Market  MarketBalance  `yaml:"market"`
}

type CompanyBalance struct {
	SalaryRates        map[string]float64 `yaml:"salary_rates"`
	FactoryMonthlyCost float64            `yaml:"factory_monthly_cost"`
	ChipMasterPerk     string             `yaml:"chip_master_perk"`
	ChipMasterDiscount float64            `yaml:"chip_master_discount"`
	DebtAnnualRate     float64            `yaml:"debt_annual_rate"`
	PrivateMultiplier  float64            `yaml:"private_multiplier"`
	PublicMultiplier   float64            `yaml:"public_multiplier"`
	BaseShares         float64            `yaml:"base_shares"`
	MinSharePrice      float64            `yaml:"min_share_price"`

	IPOPremium          float64 `yaml:"ipo_premium"`
	IPOCapitalShare     float64 `yaml:"ipo_capital_share"`
	SplitThreshold      float64 `yaml:"split_threshold"`
	DilutionPriceImpact float64 `yaml:"dilution_price_impact"`
	BuybackPriceImpact  float64 `yaml:"buyback_price_impact"`
	DividendPriceImpact float64 `yaml:"dividend_price_impact"`

	BorrowCapacityRatio float64 `yaml:"borrow_capacity_ratio"`
	BorrowCapacityFloor float64 `yaml:"borrow_capacity_floor"`

	FactoryBuildCost    float64 `yaml:"factory_build_cost"`
	TechUpgradeBaseCost float64 `yaml:"tech_upgrade_base_cost"`

	FailPercent           float64 `yaml:"fail_percent"`
	RecoverPercent        float64 `yaml:"recover_percent"`
	FailingLossRatio      float64 `yaml:"failing_loss_ratio"`
	AcquisitionPremium    float64 `yaml:"acquisition_premium"`
	SubsidiaryProfitYield float64 `yaml:"subsidiary_profit_yield"`

	ProfitMoraleDelta    float64 `yaml:"profit_morale_delta"`
	LossMoraleDelta      float64 `yaml:"loss_morale_delta"`
	LowTierMoraleDelta   float64 `yaml:"low_tier_morale_delta"`
	AboveTierMoraleDelta float64 `yaml:"above_tier_morale_delta"`
	MarginWeight         float64 `yaml:"margin_weight"`
	NoRevenueMargin      float64 `yaml:"no_revenue_margin"`
	PriceNoisePercent    float64 `yaml:"price_noise_percent"`
}

type MarketBalance struct {
	TickBands map[string]float64 `yaml:"tick_bands"`

	TrendSwitchPercent float64 `yaml:"trend_switch_percent"`
	TrendDrift         float64 `yaml:"trend_drift"`
	QuarterNoise       float64 `yaml:"quarter_noise"`

	CryptoVolatility   float64 `yaml:"crypto_volatility"`
	BondVolatility     float64 `yaml:"bond_volatility"`
	UncappedFundVol    float64 `yaml:"uncapped_fund_volatility"`
	MegaCapVolatility  float64 `yaml:"mega_cap_volatility"`
	MicroCapVolatility float64 `yaml:"micro_cap_volatility"`
	SmallCapVolatility float64 `yaml:"small_cap_volatility"`
	MidCapVolatility   float64 `yaml:"mid_cap_volatility"`
	MegaCapAbove       float64 `yaml:"mega_cap_above"`
	MicroCapBelow      float64 `yaml:"micro_cap_below"`
	SmallCapBelow      float64 `yaml:"small_cap_below"`

	PriceFloor  float64 `yaml:"price_floor"`
	CryptoFloor float64 `yaml:"crypto_floor"`
	HistoryCap  int     `yaml:"history_cap"`
}

func DefaultBalance() Balance {
	return Balance{
		Company: CompanyBalance{
			SalaryRates: map[string]float64{
				"low":           3000,
				"average":       5000,
				"above_average": 8000,
			},
			FactoryMonthlyCost: 50_000,
			ChipMasterPerk:     "chipMaster",
			ChipMasterDiscount: 0.9,
			DebtAnnualRate:     0.05,
			PrivateMultiplier:  3,
			PublicMultiplier:   15,
			BaseShares:         10_000_000,
			MinSharePrice:      0.01,

			IPOPremium:          0.40,
			IPOCapitalShare:     0.15,
			SplitThreshold:      1000,
			DilutionPriceImpact: 0.97,
			BuybackPriceImpact:  1.04,
			DividendPriceImpact: 1.02,

			BorrowCapacityRatio: 0.5,
			BorrowCapacityFloor: 1_000_000,

			FactoryBuildCost:    250_000,
			TechUpgradeBaseCost: 500_000,

			FailPercent:           7,
			RecoverPercent:        25,
			FailingLossRatio:      0.02,
			AcquisitionPremium:    1.15,
			SubsidiaryProfitYield: 0.005,

			ProfitMoraleDelta:    1,
			LossMoraleDelta:      -2,
			LowTierMoraleDelta:   -2,
			AboveTierMoraleDelta: 2,
			MarginWeight:         10,
			NoRevenueMargin:      -0.1,
			PriceNoisePercent:    5,
		},
		Market: MarketBalance{
			TickBands: map[string]float64{
				"crypto": 0.20,
				"bond":   0.01,
				"fund":   0.02,
				"stock":  0.05,
			},
			TrendSwitchPercent: 20,
			TrendDrift:         0.05,
			QuarterNoise:       0.02,

			CryptoVolatility:   4.0,
			BondVolatility:     0.1,
			UncappedFundVol:    0.8,
			MegaCapVolatility:  0.5,
			MicroCapVolatility: 2.5,
			SmallCapVolatility: 2.0,
			MidCapVolatility:   1.2,
			MegaCapAbove:       200e9,
			MicroCapBelow:      1e9,
			SmallCapBelow:      10e9,

			PriceFloor:  0.01,
			CryptoFloor: 0.0001,
			HistoryCap:  12,
		},
	}
}

// LoadBalance returns the defaults overlaid with the YAML file at path, if any.
func LoadBalance(path string) (Balance, error) {
	b := DefaultBalance()
	if path == "" {
		return b, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return b, fmt.Errorf("read balance file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return b, fmt.Errorf("parse balance file %q: %w", path, err)
	}
	if err := b.Validate(); err != nil {
		return b, fmt.Errorf("balance file %q: %w", path, err)
	}
	return b, nil
}

func (b Balance) Validate() error {
	c := b.Company
	if c.BaseShares <= 0 {
		return fmt.Errorf("base_shares must be > 0")
	}
	for name, v := range map[string]float64{
		"fail_percent":         c.FailPercent,
		"recover_percent":      c.RecoverPercent,
		"trend_switch_percent": b.Market.TrendSwitchPercent,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s must be within [0,100], got %v", name, v)
		}
	}
	for name, v := range map[string]float64{
		"dilution_price_impact": c.DilutionPriceImpact,
		"buyback_price_impact":  c.BuybackPriceImpact,
		"dividend_price_impact": c.DividendPriceImpact,
		"acquisition_premium":   c.AcquisitionPremium,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be > 0, got %v", name, v)
		}
	}
	for _, tier := range []string{"low", "average", "above_average"} {
		if _, ok := c.SalaryRates[tier]; !ok {
			return fmt.Errorf("salary_rates.%s is required", tier)
		}
	}
	if b.Market.HistoryCap <= 0 {
		return fmt.Errorf("history_cap must be > 0")
	}
	if b.Market.PriceFloor <= 0 || b.Market.CryptoFloor <= 0 {
		return fmt.Errorf("price floors must be > 0")
	}
	return nil
}

// Save writes the balance as YAML, for dumping the effective tuning.
func (b Balance) Save(path string) error {
	raw, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal balance: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}
