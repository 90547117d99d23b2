package handlers

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"flightbot/models"
	"flightbot/services/intelligence"
	"flightbot/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MaxFileSize      = 5 * 1024 * 1024 // 5MB
	AllowedExtension = ".wav"
	waveHeaderSize   = 44
)

type waveHeader struct {
	RiffTag       [4]byte
	FileSize      uint32
	WaveTag       [4]byte
	FmtTag        [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataTag       [4]byte
	DataSize      uint32
}

func parseWaveHeader(data []byte) (*waveHeader, error) {
	if len(data) < waveHeaderSize {
		return nil, errors.New("invalid WAV header length")
	}

	var header waveHeader
	if err := binary.Read(bytes.NewReader(data[:waveHeaderSize]), binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if string(header.RiffTag[:]) != "RIFF" || string(header.WaveTag[:]) != "WAVE" {
		return nil, errors.New("not a RIFF/WAVE file")
	}
	// Samples must start right after the header, so extra chunks (LIST, fact)
	// or an extended fmt chunk are refused.
	if string(header.FmtTag[:]) != "fmt " || header.FmtSize != 16 || string(header.DataTag[:]) != "data" {
		return nil, errors.New("unsupported WAV layout: expected a 44-byte canonical header")
	}
	return &header, nil
}

// validateLinear16 checks the header describes mono 16-bit PCM.
func (h *waveHeader) validateLinear16() error {
	if h.AudioFormat != 1 {
		return fmt.Errorf("expected PCM audio, got format %d", h.AudioFormat)
	}
	if h.NumChannels != 1 {
		return fmt.Errorf("expected mono audio, got %d channels", h.NumChannels)
	}
	if h.BitsPerSample != 16 {
		return fmt.Errorf("expected 16-bit samples, got %d", h.BitsPerSample)
	}
	return nil
}

type VoiceHandler struct {
	Transcriber     intelligence.Transcriber
	Responder       intelligence.Responder
	DefaultLanguage string
}

func NewVoiceHandler(t intelligence.Transcriber, r intelligence.Responder, defaultLanguage string) *VoiceHandler {
	return &VoiceHandler{Transcriber: t, Responder: r, DefaultLanguage: defaultLanguage}
}

// VoiceChatHandler transcribes an uploaded WAV clip and answers it like a
// typed chat message.
func (h *VoiceHandler) VoiceChatHandler(c *gin.Context) {
	logger := getLogger(c)

	// 1. Optional form fields
	language := c.DefaultPostForm("language", h.DefaultLanguage)
	sessionID := c.PostForm("session_id")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	// 2. Get audio file from multipart form
	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "audio file is required", err.Error())
		return
	}
	defer file.Close()

	// 3. Validate file extension
	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != AllowedExtension {
		utils.JSONError(c, http.StatusBadRequest, "invalid file type", fmt.Sprintf("expected %s, got %s", AllowedExtension, ext))
		return
	}

	// 4. Read the clip, refusing anything over the size limit
	data, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read audio file", err.Error())
		return
	}
	if len(data) > MaxFileSize {
		utils.JSONError(c, http.StatusRequestEntityTooLarge, "audio file too large", fmt.Sprintf("limit is %d bytes", MaxFileSize))
		return
	}

	// 5. Validate the WAV layout
	wav, err := parseWaveHeader(data)
	if err == nil {
		err = wav.validateLinear16()
	}
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "unsupported audio", err.Error())
		return
	}

	// 6. Transcribe
	transcript, err := h.Transcriber.Transcribe(c.Request.Context(), data[waveHeaderSize:], int32(wav.SampleRate), language)
	if err != nil {
		logger.Error("Speech recognition failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "speech recognition failed", "")
		return
	}
	if transcript == "" {
		utils.JSONError(c, http.StatusUnprocessableEntity, "no speech detected", "")
		return
	}

	// 7. Answer the transcript
	reply, err := h.Responder.Respond(c.Request.Context(), sessionID, transcript)
	if err != nil {
		logger.Error("Failed to process voice message", zap.String("session", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to process message", "")
		return
	}

	c.JSON(http.StatusOK, models.VoiceChatResponse{
		SessionID:     sessionID,
		Transcription: transcript,
		Response:      reply,
	})
}
