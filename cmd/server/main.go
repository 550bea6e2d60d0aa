package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/engine"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/server"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/storage"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/version"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var seed string
	var campaignPath string
	var savePath string
	var replayPath string
	flag.StringVar(&seed, "seed", "", "Master seed string (empty for random)")
	flag.StringVar(&campaignPath, "campaign", "", "Path to external campaign YAML (empty for embedded)")
	flag.StringVar(&savePath, "saves", "dicechess_saves.db", "Path to the save database (empty to disable saving)")
	flag.StringVar(&replayPath, "replay", "", "Path to a .dcrp replay file to simulate")
	flag.Parse()

	logger.Log.Info("Starting Dice Chess Server...")
	logger.Log.Info(version.String())

	// РЕЖИМ РЕПЛЕЯ: проигрываем журнал команд без сервера и выходим.
	if replayPath != "" {
		logger.Log.Info("💿 Mode: Replay Simulation")
		if err := runReplay(replayPath, campaignPath); err != nil {
			logger.Log.Fatal("Replay failed: ", err)
		}
		return
	}

	// Формируем конфиг
	cfg := engine.NewConfig()
	cfg.CampaignPath = campaignPath
	cfg.SavePath = savePath
	if seed != "" {
		cfg.Seed = seed
		logger.Log.Infof("🎲 Using explicit Master Seed: %s", seed)
	} else {
		logger.Log.Infof("🎲 Using random Master Seed: %s", cfg.Seed)
	}

	port := os.Getenv("DC_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Инициализация ядра с конфигом
	gameService, err := engine.NewService(cfg)
	if err != nil {
		logger.Log.Fatal("Service init error: ", err)
	}

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 3. Запуск сервера
	srv := server.New(gameService, port)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")
	gameService.Close()
	logger.Log.Info("Done.")
}

// runReplay скармливает сервису записанный журнал команд.
// Детерминированное ядро воспроизводит партию ход в ход; итог
// печатается в лог.
func runReplay(path, campaignPath string) error {
	header, cmds, err := storage.LoadReplay(path)
	if err != nil {
		return err
	}
	logger.Log.Infof("Replaying seed %q, level %d, %d commands", header.Seed, header.Level, len(cmds))

	cfg := engine.NewConfig()
	cfg.Seed = header.Seed
	cfg.CampaignPath = campaignPath

	gameService, err := engine.NewService(cfg)
	if err != nil {
		return err
	}
	defer gameService.Close()

	sessionID := ""
	for i, cmd := range cmds {
		if sessionID != "" {
			cmd.SessionID = sessionID
		}
		resp := gameService.ProcessCommand(cmd)
		if resp.Type == "ERROR" {
			logger.Log.Warnf("Replay command %d rejected: %s", i+1, resp.Error)
			continue
		}
		if sessionID == "" && resp.SessionID != "" {
			sessionID = resp.SessionID
		}
		if resp.Type == "GAME_OVER" {
			logger.Log.Infof("Replay finished: %s wins", resp.Outcome)
		}
	}
	return nil
}
