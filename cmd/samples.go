package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/llamasearchai/llamaspace/internal/samples"
)

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "Generate YAML seed files for the document store",
	Long: `Generate sample satellite and ground-station YAML files under
<data-dir>/samples. The setup command loads these files when seeding
empty MongoDB collections.`,
	SilenceUsage: true,
	RunE:         runSamples,
}

func init() {
	rootCmd.AddCommand(samplesCmd)

	samplesCmd.Flags().Int("satellites", 3, "number of sample satellites")
	samplesCmd.Flags().Int("ground-stations", 3, "number of sample ground stations")
	samplesCmd.Flags().Uint64("seed", 0, "random seed (0 for non-deterministic output)")

	_ = viper.BindPFlag("samples.satellites", samplesCmd.Flags().Lookup("satellites"))
	_ = viper.BindPFlag("samples.ground_stations", samplesCmd.Flags().Lookup("ground-stations"))
	_ = viper.BindPFlag("samples.seed", samplesCmd.Flags().Lookup("seed"))
}

func runSamples(_ *cobra.Command, _ []string) error {
	logger := GetLogger()

	dir := filepath.Join(viper.GetString("data_dir"), "samples")
	gen := samples.NewGenerator(viper.GetUint64("samples.seed"))

	satellites := viper.GetInt("samples.satellites")
	stations := viper.GetInt("samples.ground_stations")

	if err := gen.WriteSampleFiles(dir, satellites, stations); err != nil {
		logger.Error("failed to write sample files", "error", err)
		return err
	}

	logger.Info("sample files written",
		"dir", dir,
		"satellites", satellites,
		"ground_stations", stations,
	)
	return nil
}
