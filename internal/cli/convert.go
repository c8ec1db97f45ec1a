package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svgmcp/pkg/encode"
	svgerrors "github.com/matzehuels/svgmcp/pkg/errors"
	"github.com/matzehuels/svgmcp/pkg/output"
	"github.com/matzehuels/svgmcp/pkg/tools"
)

// convertOptions holds the flags of the convert command.
type convertOptions struct {
	format       string
	width        int
	height       int
	quality      int
	returnBase64 bool
	output       string

	// set* record which optional flags were given explicitly.
	setWidth, setHeight, setQuality bool
}

// convertCommand creates the convert command for one-shot conversions.
func (c *CLI) convertCommand() *cobra.Command {
	opts := convertOptions{format: string(encode.PNG)}

	cmd := &cobra.Command{
		Use:   "convert FILE|-",
		Short: "Convert an SVG file to PNG or JPEG",
		Long: `Convert an SVG file (or stdin with "-") through the same tools the server exposes.

Without --width and --height the image keeps the SVG's intrinsic size. Giving
both stretches the drawing to fit exactly; aspect ratio is not preserved.`,
		Example: `  svgmcp convert logo.svg -o logo.png
  svgmcp convert logo.svg --format jpeg --width 512 --quality 90 -o logo.jpg
  cat logo.svg | svgmcp convert - --base64`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			opts.setWidth = flags.Changed("width")
			opts.setHeight = flags.Changed("height")
			opts.setQuality = flags.Changed("quality")
			return c.runConvert(cmd.Context(), args[0], opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", opts.format, "output format: png or jpeg")
	flags.IntVar(&opts.width, "width", 0, "output width in pixels")
	flags.IntVar(&opts.height, "height", 0, "output height in pixels")
	flags.IntVarP(&opts.quality, "quality", "q", encode.DefaultQuality, "JPEG quality from 0 to 100")
	flags.BoolVar(&opts.returnBase64, "base64", false, "print base64 data instead of writing a file")
	flags.StringVarP(&opts.output, "output", "o", "", "copy the image to this path")

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(encode.PNG), string(encode.JPEG)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, input string, opts convertOptions, stdin io.Reader, stdout, stderr io.Writer) error {
	format, err := encode.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	name, err := toolFor(format)
	if err != nil {
		return err
	}

	svg, err := readInput(input, stdin)
	if err != nil {
		return err
	}

	args := tools.Args{
		"svg_content":   svg,
		"return_base64": opts.returnBase64,
	}
	if opts.setWidth {
		args["width"] = opts.width
	}
	if opts.setHeight {
		args["height"] = opts.height
	}
	if opts.setQuality {
		args["quality"] = opts.quality
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, stderr, fmt.Sprintf("Converting to %s...", format.Label()))
	spinner.Start()
	resp, err := c.newDispatcher().Call(ctx, name, args)
	spinner.Stop()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		printError(stderr, "%s", svgerrors.UserMessage(err))
		return fmt.Errorf("%s failed", name)
	}

	return c.deliver(resp.Result, opts, stdout, prog)
}

// deliver writes the tool result to the user: base64 text to stdout, or the
// emitted file's path, copying it to opts.output when set.
func (c *CLI) deliver(res *output.Result, opts convertOptions, stdout io.Writer, prog *progress) error {
	if res.Base64Data != "" && opts.output == "" {
		fmt.Fprintln(stdout, res.Base64Data)
		return nil
	}

	path := res.FilePath
	var size int64
	var err error
	switch {
	case opts.output != "" && res.Base64Data != "":
		size, err = writeBase64(opts.output, res.Base64Data)
		path = opts.output
	case opts.output != "":
		size, err = copyFile(opts.output, res.FilePath)
		path = opts.output
	default:
		size, err = fileSize(res.FilePath)
	}
	if err != nil {
		return err
	}

	printSuccess(stdout, "Converted %s", StyleHighlight.Render(res.MIMEType))
	printFile(stdout, path)
	printKeyValue(stdout, "size", formatBytes(int(size)))
	if opts.output != "" && res.FilePath != "" {
		printInfo(stdout, "emitted %s", StyleDim.Render(res.FilePath))
	}
	prog.done("Converted 1 file")
	return nil
}

// toolFor returns the name of the tool producing f.
func toolFor(f encode.Format) (string, error) {
	for _, d := range tools.List().Tools {
		if d.Format() == f {
			return d.Name, nil
		}
	}
	return "", fmt.Errorf("no tool produces %s", f)
}

// readInput reads SVG text from path, or from stdin when path is "-".
func readInput(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func copyFile(dst, src string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}
	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", dst, err)
	}
	return n, nil
}

func writeBase64(dst, data string) (int64, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(dst, raw, 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", dst, err)
	}
	return int64(len(raw)), nil
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
