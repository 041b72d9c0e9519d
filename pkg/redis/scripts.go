package redis

// Lua scripts backing the multi-field writes; each runs atomically on the server.
const (
	// KEYS: count hash, seed hash, extra keys to touch.
	// ARGV: field, delta, seed, ttl in milliseconds.
	scriptHIncrBySeeded = `
redis.call('HSETNX', KEYS[2], ARGV[1], ARGV[3])
local n = redis.call('HINCRBY', KEYS[1], ARGV[1], ARGV[2])
local ttl = tonumber(ARGV[4])
if ttl > 0 then
  for i = 1, #KEYS do
    redis.call('PEXPIRE', KEYS[i], ttl)
  end
end
return n
`

	// KEYS: hashes. ARGV: field.
	scriptHDelFromAll = `
local n = 0
for i = 1, #KEYS do
  n = n + redis.call('HDEL', KEYS[i], ARGV[1])
end
return n
`

	// KEYS: hash. ARGV: field, value.
	scriptHSetIfExists = `
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 1 then
  redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
  return 1
end
return 0
`

	// KEYS: key. ARGV: expected value, ttl in milliseconds.
	scriptExpireIfValue = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return 0
`
)
