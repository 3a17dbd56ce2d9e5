package handler

import (
	"StartLinker/internal/api/dto"
	"StartLinker/internal/model"
	"StartLinker/internal/pkg/consts"
	"StartLinker/internal/pkg/minio"
	"StartLinker/internal/pkg/response"
	"StartLinker/internal/pkg/util"
	"StartLinker/internal/service"
	"errors"
	log "log/slog"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AccountHandler struct {
	accountSvc      service.AccountService
	accountRolesSvc service.AccountRolesService
	streakSvc       service.StreakService
}

func NewAccountHandler(accountSvc service.AccountService, accountRolesSvc service.AccountRolesService, streakSvc service.StreakService) *AccountHandler {
	return &AccountHandler{
		accountSvc:      accountSvc,
		accountRolesSvc: accountRolesSvc,
		streakSvc:       streakSvc,
	}
}

func (s *AccountHandler) Register(c *gin.Context) {
	var registerDTO dto.RegisterDTO
	err := c.ShouldBind(&registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !util.ValidateRegDTO(&registerDTO) {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	if err = util.ValidateDTO(&registerDTO); err != nil {
		response.Error(c, err)
		return
	}
	err = s.accountSvc.Register(c.Request.Context(), &registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AccountHandler) Login(c *gin.Context) {
	var loginDTO dto.CredentialDTO
	err := c.ShouldBind(&loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !util.ValidateLoginDTO(&loginDTO) {
		response.Error(c, service.ErrMissingLoginCredentials)
		return
	}
	token, err := s.accountSvc.Login(c.Request.Context(), &loginDTO)
	if err != nil {
		// 对外不区分账号不存在、密码错误和标识符歧义
		if errors.Is(err, service.ErrAccountNotFound) ||
			errors.Is(err, service.ErrPasswordIncorrect) ||
			errors.Is(err, service.ErrAmbiguousIdentifier) {
			response.Fail(c, response.Unauthorized, service.ErrInvalidCredential.Error())
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]string{
		"token": token,
	})
}

func (s *AccountHandler) Logout(c *gin.Context) {
	token := c.Request.Header.Get("Authorization")
	token = strings.Replace(token, "Bearer ", "", 1)
	err := s.accountSvc.Logout(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AccountHandler) GetAccountInfo(c *gin.Context) {
	accountID := c.GetUint64("account_id")
	accountDTO, err := s.accountSvc.GetAccountInfo(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, accountDTO)
}

func (s *AccountHandler) GetHomeInfo(c *gin.Context) {
	accountID, err := strconv.ParseUint(c.Param("account_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	account, err := s.accountSvc.GetAccountHomeInfoById(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, account)
}

func (s *AccountHandler) GetSimpleInfoByIds(c *gin.Context) {
	query := c.Query("account_ids")
	if query == "" {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	idStrs := strings.Split(query, ",")
	accountIDs := make([]uint64, 0, len(idStrs))
	for _, idStr := range idStrs {
		accountID, err := strconv.ParseUint(strings.TrimSpace(idStr), 10, 64)
		if err != nil {
			response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
			return
		}
		accountIDs = append(accountIDs, accountID)
	}
	accountDTOList, err := s.accountSvc.GetAccountSimpleInfoByIds(c.Request.Context(), accountIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, accountDTOList)
}

func (s *AccountHandler) UpdateAccountInfo(c *gin.Context) {
	accountID := c.GetUint64("account_id")
	var accountDTO dto.AccountDTO
	err := c.ShouldBind(&accountDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	accountDTO.AccountID = nil
	accountDTO.Email = nil
	accountDTO.AvatarURL = nil
	accountDTO.CreatedAt = nil
	err = util.ValidateDTO(&accountDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = s.accountSvc.UpdateAccountInfo(c.Request.Context(), accountID, &accountDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AccountHandler) ChangePassword(c *gin.Context) {
	accountID := c.GetUint64("account_id")
	var changePasswordDTO dto.ChangePasswordDTO
	err := c.ShouldBind(&changePasswordDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = util.ValidateDTO(&changePasswordDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = s.accountSvc.UpdatePasswordFromOld(c.Request.Context(), accountID, &changePasswordDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AccountHandler) ChangeUsername(c *gin.Context) {
	accountID := c.GetUint64("account_id")
	var changeUsernameDTO dto.ChangeUsernameDTO
	err := c.ShouldBind(&changeUsernameDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = util.ValidateDTO(&changeUsernameDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = s.accountSvc.UpdateUsername(c.Request.Context(), accountID, &changeUsernameDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AccountHandler) UploadAvatar(c *gin.Context) {
	accountID := c.GetUint64("account_id")
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
	if !strings.HasPrefix(contentType, consts.MimePrefixImage) {
		response.Error(c, service.ErrFileNotSupported)
		return
	}

	// 统一裁成方形缩略图再入库
	thumbnail, size, err := util.MakeAvatarThumbnail(reader)
	if err != nil {
		response.Error(c, service.ErrFileNotSupported)
		return
	}

	objectName := "avatars/" + uuid.NewString() + ".jpg"
	fileKey, err := minio.UploadFile(c.Request.Context(), minio.MediaBucket, objectName, thumbnail, size, "image/jpeg")
	if err != nil {
		log.ErrorContext(c, "MinIO upload failed", "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}

	err = s.accountSvc.UpdateAvatar(c.Request.Context(), accountID, fileKey)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// SearchTalents 人才搜索
func (s *AccountHandler) SearchTalents(c *gin.Context) {
	keyword := c.Query("keyword")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if keyword == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	talents, err := s.accountSvc.SearchTalents(c.Request.Context(), keyword, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, talents)
}

// GetStreak 查询当前账号的连续登录统计
func (s *AccountHandler) GetStreak(c *gin.Context) {
	accountID := c.GetUint64("account_id")
	streak, err := s.streakSvc.GetStreak(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, streak)
}

func (s *AccountHandler) CancelAccount(c *gin.Context) {
	accountID := c.GetUint64("account_id")
	token := c.Request.Header.Get("Authorization")
	token = strings.Replace(token, "Bearer ", "", 1)
	err := s.accountSvc.CancelAccount(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	_ = s.accountSvc.Logout(c.Request.Context(), token)
	response.Success(c, nil)
}

func (s *AccountHandler) BanAccount(c *gin.Context) {
	operatorID := c.GetUint64("account_id")
	var banDTO dto.BanAccountDTO
	err := c.ShouldBind(&banDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = s.accountSvc.BanAccount(c.Request.Context(), banDTO.AccountID, operatorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AccountHandler) UnbanAccount(c *gin.Context) {
	var banDTO dto.BanAccountDTO
	err := c.ShouldBind(&banDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = s.accountSvc.UnBanAccount(c.Request.Context(), banDTO.AccountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AccountHandler) GetAllRoles(c *gin.Context) {
	roles, err := s.accountRolesSvc.GetRoles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, roles)
}

func (s *AccountHandler) AddAccountRole(c *gin.Context) {
	var accountRole model.AccountRole
	err := c.ShouldBind(&accountRole)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = s.accountRolesSvc.AddRoleToAccount(c.Request.Context(), accountRole.AccountID, accountRole.RoleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AccountHandler) DeleteAccountRole(c *gin.Context) {
	var accountRole model.AccountRole
	err := c.ShouldBind(&accountRole)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = s.accountRolesSvc.DeleteRoleFromAccount(c.Request.Context(), accountRole.AccountID, accountRole.RoleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
