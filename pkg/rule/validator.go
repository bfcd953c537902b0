// Package rule 提供名称与路径合法性校验，基于 go-playground/validator 实现.
// 文件名/文件夹名的领域规则见 names.go，DTO 结构体校验通过 `rule` tag 声明.
package rule

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	inst *validator.Validate
	once sync.Once
)

// initValidator 尝试复用 gin 的 validator 引擎；若不可用则新建并设置 tag name.
// 同时注册领域自定义规则 filename/foldername/relpath.
func initValidator() {
	if engine := binding.Validator.Engine(); engine != nil {
		if v, ok := engine.(*validator.Validate); ok {
			inst = v
			inst.SetTagName("rule")

			registerDomainRules(inst)

			return
		}
	}

	inst = validator.New()
	inst.SetTagName("rule")

	registerDomainRules(inst)
}

// registerDomainRules 注册文件名/文件夹名/相对路径三条领域规则.
func registerDomainRules(v *validator.Validate) {
	_ = v.RegisterValidation("filename", func(fl validator.FieldLevel) bool {
		return ValidateFileName(fl.Field().String()) == nil
	})

	_ = v.RegisterValidation("foldername", func(fl validator.FieldLevel) bool {
		return ValidateFolderName(fl.Field().String()) == nil
	})

	_ = v.RegisterValidation("relpath", func(fl validator.FieldLevel) bool {
		// 空路径表示根目录，结构体层面允许；必填用 required 组合
		s := fl.Field().String()
		if s == "" {
			return true
		}

		return ValidatePath(s) == nil
	})
}

// lazyInit 初始化全局 validator（幂等）.
func lazyInit() {
	once.Do(initValidator)
}

// Engine 返回全局 *validator.Validate，若未初始化则先初始化.
func Engine() *validator.Validate {
	lazyInit()

	return inst
}

// ValidateStruct 对结构体执行完整校验.
func ValidateStruct(s any) error {
	lazyInit()

	return inst.Struct(s)
}

// ValidateVar 按规则对单个变量校验，例如: ValidateVar("abc", "required,email").
func ValidateVar(field any, tag string) error {
	lazyInit()

	return inst.Var(field, tag)
}
