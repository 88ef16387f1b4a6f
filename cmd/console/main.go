package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"kgeyst.com/iris/pkg/common"
	"kgeyst.com/iris/pkg/iris/api"
	"kgeyst.com/iris/pkg/iris/domain"
	"kgeyst.com/iris/pkg/iris/infrastructure/audio"
	"kgeyst.com/iris/pkg/iris/infrastructure/filesystem"
	"kgeyst.com/iris/pkg/iris/infrastructure/images"
)

const help = `Type a message to chat. Commands:
  :image <path|url>   attach an image to the next message
  :clear              start a new conversation
  :export [path]      save the transcript
  :lang <name>        answer in another language
  :speech on|off      read replies aloud
  :quit               exit`

type console struct {
	iris             api.API
	imageLoader      *images.Loader
	transcriptWriter *filesystem.TranscriptWriter
}

func main() {
	err := mainImpl()
	if err != nil {
		panic(err)
	}
}

func mainImpl() error {
	_ = godotenv.Load() // .env is optional
	config, err := common.LoadConfig("config.yaml")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	logger := api.NewLogger(config)
	player := audio.NewCommandPlayer(filesystem.NewTempFilePathProvider(config), config, logger)
	defer func() {
		cancel() // stops speech which is still playing
		player.Wait()
	}()
	iris, err := api.NewAPI(ctx, config, player, logger, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	c := &console{
		iris:             iris,
		imageLoader:      images.NewLoader(config),
		transcriptWriter: filesystem.NewTranscriptWriter(config),
	}
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer func() {
		_ = rl.Close()
	}()
	fmt.Println(help)
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, ":") {
			c.submit(ctx, line)
			continue
		}
		command, argument, _ := strings.Cut(line[1:], " ")
		if command == "quit" {
			break
		}
		c.execute(ctx, command, strings.TrimSpace(argument))
	}
	return nil
}

func (c *console) submit(ctx context.Context, text string) {
	fmt.Println("(analyzing...)")
	turn, err := c.iris.SubmitTurn(ctx, text)
	if errors.Is(err, domain.ErrEmptyTurn) {
		fmt.Println("Nothing to send.")
		return
	}
	if errors.Is(err, domain.ErrBusy) {
		fmt.Println("Still speaking, please wait.")
		return
	}
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(turn.Reply.Text)
}

func (c *console) execute(ctx context.Context, command, argument string) {
	switch command {
	case "image":
		raw, err := c.imageLoader.Load(ctx, argument)
		if err != nil {
			fmt.Println(err)
			return
		}
		image, err := c.iris.AttachImage(raw)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("Attached %s (%d bytes). It will be sent with your next message.\n", image.MIMEType, len(image.Data))
	case "clear":
		c.iris.Clear()
		fmt.Println("Conversation cleared.")
	case "export":
		path, err := c.transcriptWriter.Write(argument, c.iris.ExportTranscript())
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println("Transcript saved to", path)
	case "lang":
		c.iris.SetLanguage(argument)
		fmt.Println("Language:", c.iris.State().Language)
	case "speech":
		switch argument {
		case "on":
			c.iris.SetSpeechEnabled(true)
		case "off":
			c.iris.SetSpeechEnabled(false)
		default:
			fmt.Println("Usage: :speech on|off")
			return
		}
		fmt.Println("Speech:", argument)
	default:
		fmt.Println(help)
	}
}
