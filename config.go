package main

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type (
	DashboardConfig struct {
		ApiBaseUrl               string `mapstructure:"api_base_url" validate:"required,url"`
		FetchMode                string `mapstructure:"fetch_mode" validate:"required,oneof=http browser file"`
		DatasetDir               string `mapstructure:"dataset_dir" validate:"required_if=FetchMode file"`
		ChromeDevtoolsURL        string `mapstructure:"chrome_devtools_url" validate:"required,url"`
		HierarchicalPath         string `mapstructure:"hierarchical_path" validate:"required,startswith=/"`
		CitationNetworkPath      string `mapstructure:"citation_network_path" validate:"required,startswith=/"`
		CollaborationNetworkPath string `mapstructure:"collaboration_network_path" validate:"required,startswith=/"`
		TimelinePath             string `mapstructure:"timeline_path" validate:"required,startswith=/"`
		PatentsByYearPath        string `mapstructure:"patents_by_year_path" validate:"required,startswith=/,contains=%d"`
		ScalabilityPath          string `mapstructure:"scalability_path" validate:"required,startswith=/"`
		MaxNodesPerCommunity     int    `mapstructure:"max_nodes_per_community"`
		MaxCommunityLabels       int    `mapstructure:"max_community_labels"`
		MaxCommunities           int    `mapstructure:"max_communities"`
		OutputDir                string `mapstructure:"output_dir" validate:"required"`
		IntervalPerRequest       int    `mapstructure:"interval_per_request_ms" validate:"gte=0"`
		RequestTimeout           int    `mapstructure:"request_timeout_s" validate:"required,gt=0"`
		RadialWidth              int    `mapstructure:"radial_width" validate:"required,gte=300"`
		RadialHeight             int    `mapstructure:"radial_height" validate:"required,gte=300"`
		MetricsTextfile          string `mapstructure:"metrics_textfile"`
	}
)

// 설정 기본값
// 원래 대시보드가 바라보던 로컬 백엔드와 그 API 경로를 그대로 기본값으로 둠
func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("api_base_url", "http://localhost:8000/api/v1")
	v.SetDefault("fetch_mode", "http")
	v.SetDefault("dataset_dir", "")
	v.SetDefault("chrome_devtools_url", "ws://127.0.0.1:9222/devtools/browser")
	v.SetDefault("hierarchical_path", "/network/hierarchical-citation")
	v.SetDefault("citation_network_path", "/network/citation")
	v.SetDefault("collaboration_network_path", "/network/collaboration")
	v.SetDefault("timeline_path", "/timeline/papers-by-year")
	v.SetDefault("patents_by_year_path", "/data/patents-by-year?year=%d")
	v.SetDefault("scalability_path", "/scalability-solution")
	v.SetDefault("max_nodes_per_community", DefaultMaxNodesPerCommunity)
	v.SetDefault("max_community_labels", DefaultMaxCommunityLabels)
	v.SetDefault("max_communities", DefaultMaxCommunities)
	v.SetDefault("output_dir", "dashboard")
	v.SetDefault("interval_per_request_ms", 300)
	v.SetDefault("request_timeout_s", 30)
	v.SetDefault("radial_width", 1000)
	v.SetDefault("radial_height", 1000)
	v.SetDefault("metrics_textfile", "")
}

// LoadConfig 설정 파일(없으면 기본값)과 CITEVIZ_ 환경변수를 읽어 검증된 설정을 반환
func LoadConfig(v *viper.Viper) (DashboardConfig, error) {
	setConfigDefaults(v)
	v.SetEnvPrefix("CITEVIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	config := DashboardConfig{}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, err
		}
		Logger.Info("config file not found, using defaults")
	}
	if err := v.Unmarshal(&config); err != nil {
		return config, err
	}
	if err := validator.New().Struct(&config); err != nil {
		return config, err
	}
	return config, nil
}

func (c DashboardConfig) Limits() SampleLimits {
	return SampleLimits{
		MaxNodesPerCommunity: c.MaxNodesPerCommunity,
		MaxCommunityLabels:   c.MaxCommunityLabels,
		MaxCommunities:       c.MaxCommunities,
	}
}
