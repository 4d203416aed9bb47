package ilp

import (
	"fmt"
	"strconv"
)

// Имена переменных и меток ограничений — внешний контракт с решателем:
// все текстовые формы собраны здесь, чтобы целевая функция и все семейства
// ограничений гарантированно использовали одну и ту же запись.

// SinkID литеральный индекс стока в именах переменных
const SinkID = "n"

// ExecVar возвращает имя переменной исполнения: x_<id>_<t>
func ExecVar(id string, t int) string {
	return fmt.Sprintf("x_%s_%d", id, t)
}

// WeightedExecVar возвращает слагаемое t*x с коэффициентом впереди: <t>x_<id>_<t>
func WeightedExecVar(id string, t int) string {
	return strconv.Itoa(t) + ExecVar(id, t)
}

// ResourceVar возвращает имя переменной числа экземпляров юнита: a<unit>
func ResourceVar(unit int) string {
	return "a" + strconv.Itoa(unit)
}

// CostedResourceVar возвращает слагаемое целевой функции MR-LC: <cost>a<unit>
func CostedResourceVar(unit, cost int) string {
	return strconv.Itoa(cost) + ResourceVar(unit)
}

// Label возвращает метку ограничения данного семейства: e<k>, r<k>, d<k>
func Label(family string, k int) string {
	return family + strconv.Itoa(k)
}

// Семейства ограничений
const (
	FamilyExecution  = "e"
	FamilyResource   = "r"
	FamilyDependency = "d"
)
