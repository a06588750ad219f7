package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/urfave/cli"
	"github.com/veandco/go-sdl2/sdl"

	"vgmnes/pkg/apu"
	"vgmnes/pkg/logger"
	"vgmnes/pkg/vgm"
)

const (
	audioBufferSamples = 1024
	pullChunkSamples    = 2048
)

func main() {
	app := cli.NewApp()
	app.Name = "vgmplay"
	app.Description = "Plays VGM 1.x command streams through an emulated NES APU"
	app.Usage = "vgmplay play [options] <file.vgm>"
	app.Version = "1.0.0"
	app.Commands = []cli.Command{
		{
			Name:  "play",
			Usage: "decode and play a VGM file",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "region", Value: "ntsc", Usage: "ntsc or pal (accepted but not applied; the region follows the file header's rate field)"},
				cli.IntFlag{Name: "sample-rate", Value: 44100, Usage: "host output sample rate"},
				cli.BoolFlag{Name: "fade", Usage: "enable fade-out at loop boundary / end of stream"},
				cli.StringFlag{Name: "resampler", Value: "naive", Usage: "naive or band-limited"},
				cli.StringFlag{Name: "mute", Usage: "comma-separated channels to mute: pulse1,pulse2,triangle,noise,dmc"},
				cli.StringFlag{Name: "wav", Usage: "write decoded PCM to this WAV file instead of (or in addition to) live playback"},
				cli.BoolFlag{Name: "no-audio", Usage: "skip live SDL2 playback (useful with --wav)"},
				cli.StringFlag{Name: "log-level", Value: "info", Usage: "off, error, warn, info, debug, trace"},
				cli.StringFlag{Name: "log-file", Usage: "log file path (empty for stdout)"},
				cli.BoolFlag{Name: "log-apu", Usage: "enable APU logging"},
				cli.BoolFlag{Name: "log-vgm", Usage: "enable VGM stream logging"},
			},
			Action: runPlay,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "vgmplay:", err)
		os.Exit(1)
	}
}

func runPlay(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelp(c, "play")
		return fmt.Errorf("no VGM file provided")
	}
	path := c.Args().Get(0)

	level := logger.GetLogLevelFromString(c.String("log-level"))
	if err := logger.Initialize(level, c.String("log-file")); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Close()
	logger.SetAPULogging(c.Bool("log-apu"))
	logger.SetVGMLogging(c.Bool("log-vgm"))

	reader, err := vgm.NewFileReader(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer reader.Close()

	player, err := vgm.Create(reader)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	tags := player.GD3()
	if tags.TrackName != "" {
		logger.LogInfo("Track: %s (%s)", tags.TrackName, tags.GameName)
	}

	if resampler := c.String("resampler"); resampler == "band-limited" {
		player.SetResampler(apu.ResamplerBandLimited)
	}

	sampleRate := uint32(c.Int("sample-rate"))
	if err := player.PreparePlayback(sampleRate, c.Bool("fade")); err != nil {
		return fmt.Errorf("preparing playback: %w", err)
	}

	for _, name := range strings.Split(c.String("mute"), ",") {
		if mask, ok := channelByName(strings.TrimSpace(name)); ok {
			player.EnableChannel(mask, false)
		}
	}

	var enc *wav.Encoder
	var wavFile *os.File
	if out := c.String("wav"); out != "" {
		wavFile, err = os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer wavFile.Close()
		enc = wav.NewEncoder(wavFile, int(sampleRate), 16, 1, 1)
		defer enc.Close()
	}

	var device sdl.AudioDeviceID
	if !c.Bool("no-audio") {
		device, err = openAudioDevice(sampleRate)
		if err != nil {
			logger.LogError("audio device unavailable, continuing with --wav/--no-audio only: %v", err)
		} else {
			defer sdl.CloseAudioDevice(device)
		}
	}

	buf := make([]int16, pullChunkSamples)
	intData := make([]int, pullChunkSamples)
	for {
		n, err := player.GetSamples(buf)
		if err != nil {
			return fmt.Errorf("playback: %w", err)
		}
		if n == 0 {
			break
		}

		if enc != nil {
			for i := 0; i < n; i++ {
				intData[i] = int(buf[i])
			}
			if err := enc.Write(&audio.IntBuffer{
				Format:         &audio.Format{NumChannels: 1, SampleRate: int(sampleRate)},
				Data:           intData[:n],
				SourceBitDepth: 16,
			}); err != nil {
				return fmt.Errorf("writing wav: %w", err)
			}
		}

		if device != 0 {
			queueSamples(device, buf[:n])
		}
	}

	return nil
}

func channelByName(name string) (apu.ChannelMask, bool) {
	switch name {
	case "pulse1":
		return apu.ChannelPulse1, true
	case "pulse2":
		return apu.ChannelPulse2, true
	case "triangle":
		return apu.ChannelTriangle, true
	case "noise":
		return apu.ChannelNoise, true
	case "dmc":
		return apu.ChannelDMC, true
	default:
		return 0, false
	}
}

func openAudioDevice(sampleRate uint32) (sdl.AudioDeviceID, error) {
	if err := sdl.Init(sdl.INIT_AUDIO); err != nil {
		return 0, err
	}
	want := &sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  audioBufferSamples,
	}
	var have sdl.AudioSpec
	device, err := sdl.OpenAudioDevice("", false, want, &have, sdl.AUDIO_ALLOW_ANY_CHANGE)
	if err != nil {
		return 0, err
	}
	logger.LogInfo("audio device opened: %dHz, %d channels, buffer %d", have.Freq, have.Channels, have.Samples)
	sdl.PauseAudioDevice(device, false)
	return device, nil
}

// queueSamples blocks (by polling queue depth) rather than letting the
// queue grow unbounded, since the decode loop otherwise runs far ahead of
// real-time playback.
func queueSamples(device sdl.AudioDeviceID, samples []int16) {
	maxQueued := uint32(audioBufferSamples * 2 * 4) // bytes, ~4 buffers
	for sdl.GetQueuedAudioSize(device) > maxQueued {
		sdl.Delay(1)
	}

	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		data[i*2+0] = byte(s)
		data[i*2+1] = byte(uint16(s) >> 8)
	}
	sdl.QueueAudio(device, data)
}
