package handler

import (
	"StartLinker/internal/api/dto"
	"StartLinker/internal/pkg/response"
	"StartLinker/internal/pkg/util"
	"StartLinker/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type DeckHandler struct {
	deckSvc service.DeckService
}

func NewDeckHandler(deckSvc service.DeckService) *DeckHandler {
	return &DeckHandler{deckSvc: deckSvc}
}

// CreateDeck 上传路演稿（PDF）
func (s *DeckHandler) CreateDeck(c *gin.Context) {
	accountID := c.GetUint64("account_id")

	createDTO := dto.CreateDeckDTO{Title: c.PostForm("title")}
	if site := c.PostForm("website_url"); site != "" {
		createDTO.WebsiteURL = &site
	}
	if err := util.ValidateDTO(&createDTO); err != nil {
		response.Error(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil || file == nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	reader, err := file.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer func() {
		_ = reader.Close()
	}()

	contentType, err := util.GetSafeContentType(reader)
	if err != nil {
		response.Error(c, err)
		return
	}

	deckDTO, err := s.deckSvc.CreateDeck(c.Request.Context(), accountID, &createDTO, reader, file.Size, contentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, deckDTO)
}

func (s *DeckHandler) GetDeck(c *gin.Context) {
	accountID := c.GetUint64("account_id")
	deckID, err := strconv.ParseUint(c.Param("deck_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	deckDTO, err := s.deckSvc.GetDeck(c.Request.Context(), accountID, deckID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, deckDTO)
}

func (s *DeckHandler) ListDecks(c *gin.Context) {
	accountID := c.GetUint64("account_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	decks, err := s.deckSvc.ListDecks(c.Request.Context(), accountID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, decks)
}

func (s *DeckHandler) DeleteDeck(c *gin.Context) {
	accountID := c.GetUint64("account_id")
	deckID, err := strconv.ParseUint(c.Param("deck_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	err = s.deckSvc.DeleteDeck(c.Request.Context(), accountID, deckID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// AnalyzeDeck 触发 AI 分析，异步出结果
func (s *DeckHandler) AnalyzeDeck(c *gin.Context) {
	accountID := c.GetUint64("account_id")
	deckID, err := strconv.ParseUint(c.Param("deck_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	err = s.deckSvc.AnalyzeDeck(c.Request.Context(), accountID, deckID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
