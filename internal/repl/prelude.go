package repl

// Prelude defines the curried library wrappers over the standard natives.
const Prelude = `
def add = fn x -> fn y -> native2 native:add x y
def sub = fn x -> fn y -> native2 native:sub x y
def mul = fn x -> fn y -> native2 native:mul x y
def div = fn x -> fn y -> native2 native:div x y
def mod = fn x -> fn y -> native2 native:mod x y
def eq = fn x -> fn y -> native2 native:eq x y
def lt = fn x -> fn y -> native2 native:lt x y
def gt = fn x -> fn y -> native2 native:gt x y
def print = fn x -> native1 native:print x
`
