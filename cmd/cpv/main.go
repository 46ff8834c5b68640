package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"cropproof/internal/api"
	"cropproof/internal/camera"
	"cropproof/internal/config"
	"cropproof/internal/domain"
	"cropproof/internal/eligibility"
	"cropproof/internal/evidence"
	"cropproof/internal/fault"
	"cropproof/internal/geo"
	"cropproof/internal/i18n"
	"cropproof/internal/journal"
	"cropproof/internal/photoset"
	"cropproof/internal/resolver"
	"cropproof/internal/submit"
	"cropproof/internal/workflow"
)

var rootCmd = &cobra.Command{
	Use:   "cpv",
	Short: "Crop photo verification",
	Long: `cpv runs the crop photo-verification wizard from the terminal.

A field user opens a crop listing by id, reviews the farmer and crop
details, captures up to three timestamped evidence photos, and submits
them to the verification service. Submission is gated by the owner's
current verification status: pending or approved requests block a new
one, rejected or absent requests permit it.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("CROPPROOF")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("config", "cropproof.yml", "config file path")
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory for the session journal")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("locale", "", "message locale (en or kn, overrides config)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("locale", rootCmd.PersistentFlags().Lookup("locale"))
}

func registerCommands() {
	rootCmd.AddCommand(verifyCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(linkCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(logCmd())
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, err
	}
	if locale := viper.GetString("locale"); locale != "" {
		cfg.Locale = locale
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func verifyCmd() *cobra.Command {
	var photosDir string
	var lat, lng float64
	var withLocation bool
	cmd := &cobra.Command{
		Use:   "verify <crop-id>",
		Short: "Run the 3-step verification wizard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			msgs := i18n.ForLocale(cfg.Locale)

			conn, err := journal.Open(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			defer conn.Close()

			var device camera.Device
			if photosDir != "" {
				device = &camera.FileDevice{Dir: photosDir}
			} else {
				device = &camera.SimDevice{}
			}
			var locator geo.Locator = geo.None{}
			if withLocation {
				locator = geo.Static{Point: domainPoint(lat, lng)}
			}

			client := api.New(cfg)
			logger := slog.Default()
			wf := workflow.New(workflow.Config{
				Resolver:   resolver.ByCropID{Client: client},
				Gate:       eligibility.Gate{Client: client, Logger: logger},
				Camera:     camera.NewController(device, captureSettings(cfg)),
				Compositor: evidence.New(),
				Locator:    locator,
				Pipeline:   submit.Pipeline{Client: client, Logger: logger},
				Journal:    journal.Writer{DB: conn},
				Logger:     logger,
			})
			defer wf.Teardown()
			return runWizard(cmd.Context(), wf, cfg, msgs, args[0])
		},
	}
	cmd.Flags().StringVar(&photosDir, "photos-dir", "", "capture frames from image files in this directory instead of a camera")
	cmd.Flags().Float64Var(&lat, "lat", 0, "device latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "device longitude")
	cmd.Flags().BoolVar(&withLocation, "with-location", false, "attach the --lat/--lng reading to the evidence")
	return cmd
}

func runWizard(ctx context.Context, wf *workflow.Workflow, cfg *config.Config, msgs i18n.Catalog, cropID string) error {
	fmt.Println(msgs.T("loading.farmDetails"))
	if err := wf.Begin(ctx, cropID); err != nil {
		renderFatal(cfg, msgs, err)
		return err
	}

	renderReview(wf, msgs)
	if !wf.CanStart() {
		state := wf.Eligibility()
		title := msgs.T("status.pending")
		if state.Status == domain.StatusApproved {
			title = msgs.T("status.approved")
		}
		fmt.Printf("\n%s\n%s\n", title, state.BlockMessage)
		return nil
	}
	if state := wf.Eligibility(); state != nil && state.Status == domain.StatusRejected {
		fmt.Println("\n" + msgs.T("status.resubmission"))
	}

	in := bufio.NewScanner(os.Stdin)
	fmt.Printf("\n[%s] ", msgs.T("buttons.startVerification"))
	if !in.Scan() {
		return nil
	}
	if err := wf.StartCapture(); err != nil {
		fmt.Println(fault.MessageOf(err, err.Error()))
		return nil
	}

	fmt.Printf("\n%s\n", msgs.T("guidelines.title"))
	for _, g := range msgs.Guidelines() {
		fmt.Println("  •", g)
	}
	fmt.Printf("\n[%s]\n", msgs.T("buttons.allowCameraAccess"))
	if err := wf.GrantAccess(ctx); err != nil {
		fmt.Println(fault.MessageOf(err, msgs.T("errors.cameraDenied")))
	}

	for wf.Step() == workflow.StepCapture {
		renderCapturePrompt(wf, msgs)
		if !in.Scan() {
			return nil
		}
		if done := handleCaptureInput(ctx, wf, msgs, strings.TrimSpace(in.Text())); done {
			break
		}
	}

	if wf.Step() == workflow.StepDone {
		fmt.Printf("\n✔ %s\n%s\n", msgs.T("step3.title"), msgs.T("step3.message"))
	}
	return nil
}

func renderReview(wf *workflow.Workflow, msgs i18n.Catalog) {
	listing := wf.Listing()
	fmt.Printf("\n🌾 %s\n\n", listing.CropName)

	crop := table.NewWriter()
	crop.SetOutputMirror(os.Stdout)
	crop.SetTitle(msgs.T("cropCard.cropDetailsTitle"))
	crop.AppendRow(table.Row{msgs.T("cropCard.quantity"), orDash(listing.Quantity)})
	crop.AppendRow(table.Row{msgs.T("cropCard.variety"), orDash(listing.Variety)})
	if listing.IsMaize() {
		moisture := "-"
		if listing.Moisture != "" {
			moisture = listing.Moisture + "%"
		}
		crop.AppendRow(table.Row{msgs.T("cropCard.moisture"), moisture})
		crop.AppendRow(table.Row{msgs.T("cropCard.willDry"), orDash(listing.WillDry)})
	}
	crop.Render()

	farm := table.NewWriter()
	farm.SetOutputMirror(os.Stdout)
	farm.SetTitle(msgs.T("farmCard.title"))
	farm.AppendRow(table.Row{msgs.T("farmCard.fullName"), orDash(listing.FullName)})
	phone := "-"
	if listing.Phone != "" {
		phone = "+91 " + listing.Phone
	}
	farm.AppendRow(table.Row{msgs.T("farmCard.phone"), phone})
	farm.AppendRow(table.Row{msgs.T("farmCard.village"), orDash(listing.Village)})
	farm.AppendRow(table.Row{msgs.T("farmCard.taluk"), orDash(listing.Taluk)})
	farm.AppendRow(table.Row{msgs.T("farmCard.district"), orDash(listing.District)})
	farm.Render()
}

func renderCapturePrompt(wf *workflow.Workflow, msgs i18n.Catalog) {
	fmt.Printf("\nphotos: %d/%d", len(wf.Photos()), photoset.MaxPhotos)
	if err := wf.Err(); err != nil {
		fmt.Printf("  ⚠ %s", fault.MessageOf(err, err.Error()))
	}
	fmt.Println()
	if wf.LastShotPreviewed() {
		fmt.Printf("[r] %s  [a] %s  [s] %s  [d N] remove photo N  [b] back > ",
			msgs.T("buttons.retake"), msgs.T("buttons.captureAnother"), msgs.T("buttons.submit"))
		return
	}
	fmt.Printf("[c] %s  [s] %s  [d N] remove photo N  [b] back > ", msgs.T("buttons.capturePhoto"), msgs.T("buttons.submit"))
}

// handleCaptureInput applies one user action; it returns true when the
// wizard should leave the capture loop.
func handleCaptureInput(ctx context.Context, wf *workflow.Workflow, msgs i18n.Catalog, input string) bool {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "c":
		_ = wf.Capture(ctx)
	case "r":
		_ = wf.Retake(ctx)
	case "a":
		_ = wf.CaptureAnother(ctx)
	case "d":
		if len(fields) > 1 {
			if n, err := strconv.Atoi(fields[1]); err == nil {
				wf.RemovePhoto(ctx, n-1)
			}
		}
	case "s":
		fmt.Println(msgs.T("buttons.submitting"))
		if err := wf.Submit(ctx); err != nil {
			fmt.Println(fault.MessageOf(err, msgs.T("errors.submissionFailed")))
		}
	case "b":
		wf.GoBack()
		return true
	case "q":
		return true
	}
	return false
}

func renderFatal(cfg *config.Config, msgs i18n.Catalog, err error) {
	fmt.Printf("\n%s\n", msgs.T("errors.cropNotFoundTitle"))
	fmt.Println(fault.MessageOf(err, msgs.T("errors.loadCropDataFailed")))
	fmt.Printf("%s: tel:%s\n", msgs.T("incorrectDetails.callUs"), cfg.SupportPhone)
}

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <crop-id>",
		Short: "Show the listing and its owner's verification status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client := api.New(cfg)
			listing, err := resolver.ByCropID{Client: client}.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			state := eligibility.Gate{Client: client}.Check(cmd.Context(), listing.OwnerID)
			out := map[string]any{"listing": listing, "eligibility": state}
			if viper.GetBool("json") {
				return printJSON(out)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Crop", "Owner", "Village", "Status", "Can submit"})
			status, canSubmit := "unknown", "yes"
			if state != nil {
				status = string(state.Status)
				if status == "" {
					status = "none"
				}
				if !state.CanSubmit {
					canSubmit = "no"
				}
			}
			tw.AppendRow(table.Row{listing.CropName, listing.FullName, listing.Village, status, canSubmit})
			tw.Render()
			return nil
		},
	}
	return cmd
}

func linkCmd() *cobra.Command {
	var baseURL, out string
	var size int
	cmd := &cobra.Command{
		Use:   "link <crop-id>",
		Short: "Write a QR code for the crop's verification link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimRight(baseURL, "/") + "/" + args[0]
			if err := qrcode.WriteFile(target, qrcode.Medium, size, out); err != nil {
				return err
			}
			fmt.Printf("%s -> %s\n", target, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "https://verify.markhet.in", "wizard base URL")
	cmd.Flags().StringVar(&out, "out", "verification-link.png", "output PNG path")
	cmd.Flags().IntVar(&size, "size", 256, "image size in pixels")
	return cmd
}

func configCmd() *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Manage configuration"}
	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(cfg)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	})
	return cfgCmd
}

func logCmd() *cobra.Command {
	logCmd := &cobra.Command{Use: "log", Short: "Inspect the session journal"}
	var n int
	var evtType, cropID string
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Tail session events",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := journal.Open(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			defer conn.Close()
			events, err := journal.Writer{DB: conn}.Tail(cmd.Context(), n, evtType, cropID)
			if err != nil {
				return err
			}
			return printJSON(events)
		},
	}
	tail.Flags().IntVar(&n, "n", 20, "number of events")
	tail.Flags().StringVar(&evtType, "type", "", "event type filter")
	tail.Flags().StringVar(&cropID, "crop-id", "", "crop id filter")
	logCmd.AddCommand(tail)
	return logCmd
}

// --- helpers ---

func captureSettings(cfg *config.Config) camera.Settings {
	return camera.Settings{
		Width:  cfg.Capture.Width,
		Height: cfg.Capture.Height,
		Facing: camera.FacingRear,
	}
}

func domainPoint(lat, lng float64) domain.GeoPoint {
	return domain.GeoPoint{Lat: lat, Lng: lng}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
