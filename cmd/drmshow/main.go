// Command drmshow shows an image on a display output through the kernel
// mode-setting interface and holds it on screen until interrupted.
package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/vidmode/drmshow"
	"github.com/vidmode/drmshow/drm"
	"github.com/vidmode/drmshow/pixel"
)

var (
	deviceFlag     string
	connectorFlag  string
	configFlag     string
	listFlag       bool
	resolutionFlag bool
	verboseFlag    bool
)

var rootCmd = &cobra.Command{
	Use:   "drmshow [image]",
	Short: "show an image on a display output via kernel mode setting",
	Long: `drmshow negotiates a connector and its preferred mode on a DRI device,
allocates a dumb framebuffer, writes the image into it and binds it to the
display pipeline. The image stays on screen until SIGINT or SIGTERM, after
which the previous pipeline state is restored.

Without an image argument a built-in test pattern is shown. PNG and JPEG
images are scaled to the preferred resolution.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&deviceFlag, "device", "d", "", "DRI device path")
	flags.StringVarP(&connectorFlag, "connector", "c", "", "connector name, e.g. HDMI-A-1")
	flags.StringVar(&configFlag, "config", "", "YAML configuration file")
	flags.BoolVarP(&listFlag, "list", "l", false, "list connectors, framebuffers, CRTCs and encoders")
	flags.BoolVarP(&resolutionFlag, "resolution", "r", false, "print the preferred resolution of the connector")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "verbose diagnostics")

	// Asking for usage is not a successful run.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		_ = cmd.Usage()
		os.Exit(1)
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
		os.Exit(1)
	}
}

func loadConfig() (*drmshow.Config, error) {
	var (
		config *drmshow.Config
		err    error
	)
	if configFlag != "" {
		if config, err = drmshow.LoadConfig(configFlag); err != nil {
			return nil, err
		}
	} else {
		config = new(drmshow.Config)
		*config = drmshow.DefaultConfig
	}

	if deviceFlag != "" {
		config.Device = deviceFlag
	}
	if connectorFlag != "" {
		config.Connector = connectorFlag
	}
	if verboseFlag {
		config.Logf = func(format string, args ...interface{}) {
			fmt.Printf(format+"\n", args...)
		}
	}
	return config, nil
}

func run(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	card, err := drm.Open(config.Device)
	if err != nil {
		return err
	}
	defer card.Close()

	switch {
	case listFlag:
		return list(card)
	case resolutionFlag:
		return resolution(card, config.Connector)
	}

	var img image.Image
	if len(args) > 0 {
		if img, err = decode(args[0]); err != nil {
			return err
		}
	}

	fb, err := drmshow.Open(card, config)
	if err != nil {
		return err
	}

	frame, err := render(fb, img)
	if err == nil {
		err = fb.Draw(frame)
	}
	if err == nil {
		err = fb.Bind()
	}
	if err != nil {
		_ = fb.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), unix.SIGINT, unix.SIGTERM)
	defer stop()
	_ = fb.Hold(ctx)

	return fb.Close()
}

// render produces the scanout payload: the decoded image scaled to the
// negotiated mode, or a test pattern when none was given.
func render(fb *drmshow.Framebuffer, img image.Image) (drmshow.Source, error) {
	var (
		mode   = fb.Mode()
		width  = int(mode.Hdisplay)
		height = int(mode.Vdisplay)
		pitch  = int(fb.Pitch())
	)
	if img != nil {
		return pixel.FromImage(img, width, height, pitch), nil
	}

	pattern := pixel.TestPattern(width, height, pitch)
	if err := pixel.Banner(pattern, fmt.Sprintf("drmshow %dx%d", width, height)); err != nil {
		return nil, err
	}
	return pattern, nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func list(card drmshow.Card) error {
	report, err := drmshow.Resources(card)
	if err != nil {
		return err
	}

	fmt.Println("connectors:")
	for _, conn := range report.Connectors {
		fmt.Printf("Number: %d Name: %s Encoder: %d Crtc: %d\n",
			conn.ID, conn.Name, conn.EncoderID, conn.CrtcID)
	}
	fmt.Printf("Framebuffers: %s\n", ids(report.Framebuffers))
	fmt.Printf("CRTCs: %s\n", ids(report.Crtcs))
	fmt.Printf("encoders: %s\n", ids(report.Encoders))
	return nil
}

func resolution(card drmshow.Card, connector string) error {
	width, height, err := drmshow.PreferredResolution(card, connector)
	if err != nil {
		return err
	}
	fmt.Printf("%dx%d\n", width, height)
	return nil
}

func ids(list []uint32) string {
	parts := make([]string, len(list))
	for i, id := range list {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, " ")
}
