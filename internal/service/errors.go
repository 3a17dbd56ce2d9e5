package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid            = errors.New("参数错误")
	ErrAccountNotFound         = errors.New("账号不存在")
	ErrAccountBan              = errors.New("账号已被封禁")
	ErrAccountBanSelf          = errors.New("不能封禁自己")
	ErrAccountBanAdmin         = errors.New("不能封禁管理员")
	ErrAccountExist            = errors.New("账号已存在")
	ErrEmailExist              = errors.New("邮箱已注册")
	ErrUsernameExist           = errors.New("用户名已存在")
	ErrPasswordIncorrect       = errors.New("密码错误")
	ErrMissingLoginCredentials = errors.New("缺少登录凭据")
	ErrAmbiguousIdentifier     = errors.New("登录标识同时命中多个账号")
	ErrInvalidCredential       = errors.New("用户名或密码错误")
	ErrAccountHasRole          = errors.New("账号已拥有此角色")
	ErrFileNotSupported        = errors.New("不支持的文件类型")
	ErrFileNotExist            = errors.New("文件不存在")
	ErrJobNotFound             = errors.New("职位不存在")
	ErrJobNotOpen              = errors.New("职位未开放投递")
	ErrJobNotOwner             = errors.New("只能操作自己发布的职位")
	ErrApplicationExist        = errors.New("请勿重复投递")
	ErrDeckNotFound            = errors.New("路演稿不存在")
	ErrDeckQuotaExceeded       = errors.New("当前订阅计划的分析额度已用完")
	ErrDeckAnalyzing           = errors.New("分析进行中，请稍后")
	ErrSubscriptionNotFound    = errors.New("当前没有生效的付费订阅")
	ErrReportDuplicate         = errors.New("重复举报")
	ErrReportNotFound          = errors.New("举报记录不存在")
	ErrTargetAccountInvalid    = errors.New("目标账号无效")
	ErrConversation            = errors.New("会话异常")
	UnauthorizedError          = errors.New("权限不足")
	UnExpectedError            = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrAccountNotFound:         NotFound,
	ErrAccountBan:              Unauthorized,
	ErrAccountBanSelf:          Unauthorized,
	ErrAccountBanAdmin:         Unauthorized,
	ErrAccountExist:            BadRequest,
	ErrEmailExist:              BadRequest,
	ErrUsernameExist:           BadRequest,
	ErrPasswordIncorrect:       Unauthorized,
	ErrMissingLoginCredentials: Unauthorized,
	ErrAmbiguousIdentifier:     Unauthorized,
	ErrInvalidCredential:       Unauthorized,
	ErrAccountHasRole:          BadRequest,
	ErrFileNotSupported:        BadRequest,
	ErrFileNotExist:            NotFound,
	ErrJobNotFound:             NotFound,
	ErrJobNotOpen:              BadRequest,
	ErrJobNotOwner:             Unauthorized,
	ErrApplicationExist:        BadRequest,
	ErrDeckNotFound:            NotFound,
	ErrDeckQuotaExceeded:       BadRequest,
	ErrDeckAnalyzing:           BadRequest,
	ErrSubscriptionNotFound:    BadRequest,
	ErrReportDuplicate:         BadRequest,
	ErrReportNotFound:          NotFound,
	ErrTargetAccountInvalid:    BadRequest,
	ErrConversation:            BadRequest,
	UnauthorizedError:          Unauthorized,
	UnExpectedError:            InternalServerError,
}
