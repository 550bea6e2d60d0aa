package rng

import (
	"strconv"
)

// Generator - детерминированный источник случайности уровня.
// Вся симуляция (армии, рельеф, кубики) тянет числа только отсюда,
// поэтому одинаковый сид всегда дает одинаковую партию.
//
// Схема классическая: строковый сид прогоняется через xmur3-хеш,
// который раскручивает четыре 32-битных слова состояния, а дальше
// работает xorshift128 Марсальи. Никакой криптографии тут не нужно,
// нужна только воспроизводимость.
type Generator struct {
	x, y, z, w uint32
}

// New создает генератор для конкретного уровня кампании.
// Сид уровня = пользовательский сид + номер уровня, чтобы каждый
// уровень одной кампании получал свой независимый поток.
func New(seed string, level int) *Generator {
	return NewFromString(seed + strconv.Itoa(level))
}

// NewFromString создает генератор из готовой строки сида.
func NewFromString(seed string) *Generator {
	h := newHasher(seed)
	g := &Generator{
		x: h.next(),
		y: h.next(),
		z: h.next(),
		w: h.next(),
	}
	// Нулевое состояние ломает xorshift (поток вечных нулей)
	if g.x == 0 && g.y == 0 && g.z == 0 && g.w == 0 {
		g.w = 1
	}
	return g
}

// Next возвращает следующее число в [0, 1) и сдвигает курсор.
func (g *Generator) Next() float64 {
	t := g.x ^ (g.x << 11)
	g.x, g.y, g.z = g.y, g.z, g.w
	g.w = g.w ^ (g.w >> 19) ^ t ^ (t >> 8)
	return float64(g.w) / (1 << 32)
}

// Intn возвращает целое в [0, n). Для n <= 0 возвращает 0
// (мягкая деградация, как и везде в ядре).
func (g *Generator) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(g.Next() * float64(n))
}

// Die бросает один шестигранный кубик: 1..6.
func (g *Generator) Die() int {
	return g.Intn(6) + 1
}

// Shuffle перемешивает n элементов (Фишер-Йейтс).
func (g *Generator) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := g.Intn(i + 1)
		swap(i, j)
	}
}

// --- xmur3 ---

// hasher "разгоняет" строку сида в последовательность 32-битных слов.
type hasher struct {
	h uint32
}

func newHasher(s string) *hasher {
	h := uint32(1779033703) ^ uint32(len(s))
	for i := 0; i < len(s); i++ {
		h = (h ^ uint32(s[i])) * 3432918353
		h = h<<13 | h>>19
	}
	return &hasher{h: h}
}

func (hs *hasher) next() uint32 {
	hs.h = (hs.h ^ (hs.h >> 16)) * 2246822507
	hs.h = (hs.h ^ (hs.h >> 13)) * 3266489909
	hs.h ^= hs.h >> 16
	return hs.h
}
